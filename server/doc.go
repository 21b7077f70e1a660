// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package server is for building egetty servers.
//
// An egetty exposes one console: a login running on a pty, reachable
// over raw Ethernet frames of EtherType 0x6811. There is no IP, no
// authentication and no encryption beyond what login does; anyone on
// the link can attach. Use it on networks you control, typically to
// reach machines whose IP stack is not up, or not to be trusted.
//
// The basic flow is a call to transport.LinkUp and transport.Listen to
// get a Conn, a call to New, and a call to Serve. Serve announces the
// console, starts a Host, and relays between the Host and whichever
// client last sent input. When the Host exits, for example after a
// hangup or a logout, Serve starts another one, as getty does.
//
// Serve runs two reader goroutines, one for the network and one for
// the Host, and a single loop that owns the protocol state. Buffers
// move between them by channel and are recycled through an skb.Pool.
package server
