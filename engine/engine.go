// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine implements the two ends of the egetty protocol.
//
// A Server sits between a hosted login session and the wire; a Client
// sits between a terminal and the wire. Both are driven by an event
// loop that hands them one skb.Buffer at a time, either holding a
// received frame or holding local bytes with frame.MaxHeaderLen bytes
// of headroom reserved in front of them. The engine decodes, updates
// its state, and sends whatever frames result, reusing the buffer it
// was given. It does not block except in Sender and Host calls, and
// it is not safe for concurrent use: one loop owns it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/u-root/egetty/frame"
	"github.com/u-root/egetty/skb"
)

var v = func(string, ...interface{}) {}

// SetVerbose sets the debug print function.
func SetVerbose(f func(string, ...interface{})) {
	v = f
}

// Sender sends one frame to a hardware address.
type Sender interface {
	Send(ctx context.Context, p []byte, to net.HardwareAddr) error
}

// Host is the interactive session a Server exposes.
type Host interface {
	io.Writer
	SetWinsize(rows, cols uint16) error
	Terminate() error
}

// Receiver is implemented by both roles: it consumes one received
// frame from a hardware address.
type Receiver interface {
	Receive(ctx context.Context, b *skb.Buffer, from net.HardwareAddr) error
}

var (
	_ Receiver = &Server{}
	_ Receiver = &Client{}
)

// ErrDetached is returned by Client.Input when the detach key is typed.
var ErrDetached = errors.New("detached")

// DetachKey is Ctrl-]. Read on its own, it ends a client.
const DetachKey = 0x1d

// IsDetach reports whether p is the detach key and nothing else.
func IsDetach(p []byte) bool {
	return len(p) == 1 && p[0] == DetachKey
}

// decode decodes a received frame, logging and swallowing malformed ones.
func decode(b *skb.Buffer, from net.HardwareAddr) (frame.Frame, bool) {
	f, err := frame.Decode(b)
	if err != nil {
		v("drop %d bytes from %v: %v", b.Len(), from, err)
		return f, false
	}
	v("%v from %v, %d bytes payload", f, from, b.Len())
	return f, true
}

// send encodes the payload in b as kind k and sends it.
func send(ctx context.Context, tx Sender, b *skb.Buffer, k frame.Kind, c uint8, to net.HardwareAddr) error {
	if err := frame.Encode(b, k, c); err != nil {
		return fmt.Errorf("encode %v: %w", k, err)
	}
	if err := tx.Send(ctx, b.Bytes(), to); err != nil {
		return fmt.Errorf("send %v to %v: %w", k, to, err)
	}
	v("sent %v, %d bytes, to %v", k, b.Len(), to)
	return nil
}

// control builds and sends a frame with no payload, reusing b.
func control(ctx context.Context, tx Sender, b *skb.Buffer, k frame.Kind, c uint8, to net.HardwareAddr) error {
	b.Reset()
	if err := b.Reserve(frame.MaxHeaderLen); err != nil {
		return err
	}
	return send(ctx, tx, b, k, c, to)
}
