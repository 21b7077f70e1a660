// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package skb implements a packet buffer in the style of the Linux
// kernel's sk_buff.
//
// A Buffer is one allocation with four cursors: the start of the
// allocation (always 0), the start of data, the end of data, and the
// end of the allocation. Headers are added in front of a payload with
// Push and stripped with Pull; payload is added with Put and cut with
// Trim. None of these copy data. A typical outbound packet is built by
// calling Reserve for the largest header, reading the payload into
// Tail, calling Put, and then Push for the header. A typical inbound
// packet is read into Tail, Put, and then Pulled header by header.
//
// Every operation checks the invariant
//
//	0 <= data <= tail <= end
//
// and returns ErrOutOfRange rather than clamping. An ErrOutOfRange is
// always a bug in header accounting.
//
// A Buffer has a single owner at any time. Pool hands out buffers and
// resets them when they are returned.
package skb
