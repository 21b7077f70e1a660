// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transport sends and receives egetty frames on a Linux
// AF_PACKET socket.
//
// The socket is SOCK_DGRAM, so the kernel builds and strips the
// Ethernet header: Send takes a destination hardware address and
// Receive reports the source hardware address. The socket is bound to
// one interface and to frame.EtherType.
package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/vishvananda/netlink"
)

var v = func(string, ...interface{}) {}

// SetVerbose sets the debug print function.
func SetVerbose(f func(string, ...interface{})) {
	v = f
}

// ErrTransport wraps errors from the socket.
var ErrTransport = errors.New("transport")

// ErrNotEgetty is returned by Receive for frames of another protocol.
// The frame has already been consumed; callers just read again.
var ErrNotEgetty = errors.New("not an egetty frame")

// Link describes the interface a Conn is bound to.
type Link struct {
	Name         string
	Index        int
	HardwareAddr net.HardwareAddr
	MTU          int
}

func (l Link) String() string {
	return fmt.Sprintf("%s(%d, %v, mtu %d)", l.Name, l.Index, l.HardwareAddr, l.MTU)
}

// linker is the part of netlink we use. Tests replace it.
type linker interface {
	LinkByName(name string) (netlink.Link, error)
	LinkSetUp(link netlink.Link) error
}

type nl struct{}

func (nl) LinkByName(name string) (netlink.Link, error) { return netlink.LinkByName(name) }
func (nl) LinkSetUp(link netlink.Link) error            { return netlink.LinkSetUp(link) }

// LinkUp finds interface name and sets it up, retrying every interval
// until it succeeds or ctx is done. Interfaces on freshly booted
// systems often show up late.
func LinkUp(ctx context.Context, name string, interval time.Duration) (Link, error) {
	return linkUp(ctx, nl{}, name, interval)
}

func linkUp(ctx context.Context, n linker, name string, interval time.Duration) (Link, error) {
	for {
		l, err := n.LinkByName(name)
		if err == nil {
			err = n.LinkSetUp(l)
		}
		if err == nil {
			a := l.Attrs()
			return Link{Name: a.Name, Index: a.Index, HardwareAddr: a.HardwareAddr, MTU: a.MTU}, nil
		}
		v("waiting for interface %q: %v", name, err)
		select {
		case <-ctx.Done():
			return Link{}, fmt.Errorf("interface %q: %v: %w", name, err, ctx.Err())
		case <-time.After(interval):
		}
	}
}

// htons converts i to network byte order, as the kernel wants
// protocol numbers in sockaddr_ll and socket(2).
func htons(i uint16) uint16 {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], i)
	return binary.NativeEndian.Uint16(b[:])
}

func ntohs(i uint16) uint16 {
	return htons(i)
}
