// Copyright 2022-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Decentralized Services (aka ds)
// Inspired by http://man.cat-v.org/inferno/8/cs
//
// This package provides an opinionated DNS-SD for egetty and econsole.
//
// egetty frames are not IP, but the machines running egetty usually
// also have IP, and mDNS on the same link is a convenient way to find
// them. egetty advertises its console id, interface and hardware
// address in the TXT record, and econsole resolves a dnssd: URI such as
//
//	dnssd:?console=3
//
// to the hardware address it should send to. The TXT record also
// carries the hardware address of the attached client, if any.
package ds
