// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/mdlayher/socket"
	"github.com/u-root/egetty/skb"
	"golang.org/x/sys/unix"
)

// rawConn is the part of *socket.Conn a Conn uses.
type rawConn interface {
	Recvfrom(ctx context.Context, p []byte, flags int) (int, unix.Sockaddr, error)
	Sendto(ctx context.Context, p []byte, flags int, to unix.Sockaddr) error
	Close() error
}

// Conn is an AF_PACKET socket bound to one interface and protocol.
type Conn struct {
	c     rawConn
	link  Link
	proto uint16
}

// Listen opens a datagram packet socket for protocol proto and binds
// it to link.
func Listen(link Link, proto uint16) (*Conn, error) {
	c, err := socket.Socket(unix.AF_PACKET, unix.SOCK_DGRAM, int(htons(proto)), "egetty", nil)
	if err != nil {
		return nil, fmt.Errorf("socket(AF_PACKET, %#04x): %v: %w", proto, err, ErrTransport)
	}
	sa := &unix.SockaddrLinklayer{Protocol: htons(proto), Ifindex: link.Index}
	if err := c.Bind(sa); err != nil {
		c.Close()
		return nil, fmt.Errorf("bind to %v: %v: %w", link, err, ErrTransport)
	}
	v("bound to %v protocol %#04x", link, proto)
	return &Conn{c: c, link: link, proto: proto}, nil
}

// Receive reads one frame into the tail of b, which should be empty.
// It returns the sender's hardware address.
func (c *Conn) Receive(ctx context.Context, b *skb.Buffer) (net.HardwareAddr, error) {
	n, sa, err := c.c.Recvfrom(ctx, b.Tail(), 0)
	if err != nil {
		return nil, fmt.Errorf("receive on %s: %w: %w", c.link.Name, err, ErrTransport)
	}
	if _, err := b.Put(n); err != nil {
		return nil, err
	}
	from, ok := sa.(*unix.SockaddrLinklayer)
	if !ok {
		return nil, fmt.Errorf("receive on %s: address %T: %w", c.link.Name, sa, ErrTransport)
	}
	addr := make(net.HardwareAddr, from.Halen)
	copy(addr, from.Addr[:])
	if from.Protocol != htons(c.proto) {
		return addr, fmt.Errorf("protocol %#04x from %v: %w", ntohs(from.Protocol), addr, ErrNotEgetty)
	}
	v("received packet %d bytes from %v", n, addr)
	return addr, nil
}

// Send sends p to hardware address to.
func (c *Conn) Send(ctx context.Context, p []byte, to net.HardwareAddr) error {
	if len(to) != 6 {
		return fmt.Errorf("send to %v: bad hardware address: %w", to, ErrTransport)
	}
	sa := &unix.SockaddrLinklayer{
		Protocol: htons(c.proto),
		Ifindex:  c.link.Index,
		Halen:    uint8(len(to)),
	}
	copy(sa.Addr[:], to)
	if err := c.c.Sendto(ctx, p, 0, sa); err != nil {
		return fmt.Errorf("send %d bytes to %v on %s: %v: %w", len(p), to, c.link.Name, err, ErrTransport)
	}
	return nil
}

// Link returns the interface the Conn is bound to.
func (c *Conn) Link() Link {
	return c.link
}

// Close closes the socket. Blocked Receives return.
func (c *Conn) Close() error {
	return c.c.Close()
}
