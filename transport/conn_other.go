// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/u-root/egetty/skb"
)

// Conn is only implemented on Linux.
type Conn struct {
	link Link
}

// Listen fails: there are no AF_PACKET sockets here.
func Listen(link Link, proto uint16) (*Conn, error) {
	return nil, fmt.Errorf("AF_PACKET on %v: %w: %w", link, errors.ErrUnsupported, ErrTransport)
}

func (c *Conn) Receive(ctx context.Context, b *skb.Buffer) (net.HardwareAddr, error) {
	return nil, errors.ErrUnsupported
}

func (c *Conn) Send(ctx context.Context, p []byte, to net.HardwareAddr) error {
	return errors.ErrUnsupported
}

func (c *Conn) Link() Link {
	return c.link
}

func (c *Conn) Close() error {
	return nil
}
