// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/u-root/egetty/frame"
	"github.com/u-root/egetty/skb"
)

// Mode selects what a Client does. It is fixed at startup.
type Mode int

const (
	// Interactive clients type on and show one console.
	Interactive Mode = iota
	// Discovering clients scan and report every console that answers.
	Discovering
)

func (m Mode) String() string {
	if m == Discovering {
		return "discovering"
	}
	return "interactive"
}

// Client is the econsole end of the protocol.
type Client struct {
	Console uint8
	// Dest is the server's address. If nil, frames are broadcast.
	Dest net.HardwareAddr
	Mode Mode
	// Found is called for every HELLO in Discovering mode.
	Found func(console uint8, from net.HardwareAddr)

	tx  Sender
	out io.Writer
}

// NewClient returns an interactive Client for console c that sends
// through tx and writes console output to out.
func NewClient(c uint8, dest net.HardwareAddr, tx Sender, out io.Writer) *Client {
	return &Client{Console: c, Dest: dest, tx: tx, out: out}
}

func (c *Client) destination() net.HardwareAddr {
	if c.Dest == nil {
		return frame.Broadcast
	}
	return c.Dest
}

// Scan broadcasts a SCAN. b is reset and reused.
func (c *Client) Scan(ctx context.Context, b *skb.Buffer) error {
	return control(ctx, c.tx, b, frame.Scan, c.Console, frame.Broadcast)
}

// Input sends the keystrokes held in b, which must have
// frame.MaxHeaderLen bytes of headroom. It returns ErrDetached, and
// sends nothing, if the keystrokes are the detach key. Discovering
// clients send nothing.
func (c *Client) Input(ctx context.Context, b *skb.Buffer) error {
	if IsDetach(b.Bytes()) {
		return ErrDetached
	}
	if c.Mode == Discovering || b.Len() == 0 {
		return nil
	}
	return send(ctx, c.tx, b, frame.In, c.Console, c.destination())
}

// Resize sends a WINCH for a rows x cols terminal. b is reset and reused.
func (c *Client) Resize(ctx context.Context, b *skb.Buffer, rows, cols int) error {
	if c.Mode == Discovering {
		return nil
	}
	b.Reset()
	if err := frame.EncodeWinch(b, c.Console, frame.Clamp(rows), frame.Clamp(cols)); err != nil {
		return fmt.Errorf("encode WINCH: %w", err)
	}
	to := c.destination()
	if err := c.tx.Send(ctx, b.Bytes(), to); err != nil {
		return fmt.Errorf("send WINCH to %v: %w", to, err)
	}
	v("sent WINCH %dx%d to %v", rows, cols, to)
	return nil
}

// Receive handles one frame from the wire. OUT frames for our console
// are written to the output; HELLOs are reported when discovering.
// Everything else is dropped.
func (c *Client) Receive(ctx context.Context, b *skb.Buffer, from net.HardwareAddr) error {
	f, ok := decode(b, from)
	if !ok {
		return nil
	}
	switch f.Kind {
	case frame.Hello:
		if c.Mode == Discovering && c.Found != nil {
			c.Found(f.Console, from)
		}
		return nil
	case frame.Out:
		if c.Mode == Discovering || f.Console != c.Console {
			return nil
		}
		if _, err := c.out.Write(b.Bytes()); err != nil {
			return fmt.Errorf("write %d bytes of output: %w", b.Len(), err)
		}
		return nil
	}
	v("ignoring %v from %v", f.Kind, from)
	return nil
}
