// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"context"
	"fmt"
	"net"

	"github.com/u-root/egetty/frame"
	"github.com/u-root/egetty/skb"
)

// Server is the egetty end of the protocol.
type Server struct {
	Session

	tx Sender
	// OnAttach, if set, is called when a new client attaches.
	OnAttach func(net.HardwareAddr)
}

// NewServer returns a Server for console c. Frames go out through tx.
func NewServer(c uint8, tx Sender) *Server {
	return &Server{Session: Session{Console: c}, tx: tx}
}

// Receive handles one frame received from the wire.
// Frames that are malformed, for another console, or of a kind the
// server does not handle are dropped and nil is returned. The error
// is for failures to act on a good frame.
func (s *Server) Receive(ctx context.Context, b *skb.Buffer, from net.HardwareAddr) error {
	f, ok := decode(b, from)
	if !ok {
		return nil
	}
	switch f.Kind {
	case frame.Scan:
		// Scans are answered whatever console they ask for.
		return control(ctx, s.tx, b, frame.Hello, s.Console, frame.Broadcast)

	case frame.Hup:
		h := s.Host()
		if h == nil {
			return nil
		}
		v("hangup from %v", from)
		if err := h.Terminate(); err != nil {
			return fmt.Errorf("hangup: %w", err)
		}
		return nil

	case frame.Winch:
		if f.Console != s.Console {
			v("wrong console %d not %d", f.Console, s.Console)
			return nil
		}
		h := s.Host()
		if h == nil {
			return nil
		}
		v("WINCH to %d, %d", f.Rows, f.Cols)
		if err := h.SetWinsize(uint16(f.Rows), uint16(f.Cols)); err != nil {
			return fmt.Errorf("winch %dx%d: %w", f.Rows, f.Cols, err)
		}
		return nil

	case frame.In:
		if f.Console != s.Console {
			v("wrong console %d not %d", f.Console, s.Console)
			return nil
		}
		if s.Attach(from) {
			v("console %d now attached to %v", s.Console, from)
			if s.OnAttach != nil {
				s.OnAttach(s.Client())
			}
		}
		h := s.Host()
		if h == nil || b.Len() == 0 {
			return nil
		}
		if _, err := h.Write(b.Bytes()); err != nil {
			return fmt.Errorf("write %d bytes to host: %w", b.Len(), err)
		}
		v("sent %d bytes to child", b.Len())
		return nil
	}
	v("ignoring %v from %v", f.Kind, from)
	return nil
}

// Output sends host output held in b to the attached client, or to
// broadcast if there is none. b must have frame.MaxHeaderLen bytes of
// headroom.
func (s *Server) Output(ctx context.Context, b *skb.Buffer) error {
	return send(ctx, s.tx, b, frame.Out, s.Console, s.Destination())
}

// Hello broadcasts an unsolicited HELLO, so scanning clients that
// started before the server see it. b is reset and reused.
func (s *Server) Hello(ctx context.Context, b *skb.Buffer) error {
	return control(ctx, s.tx, b, frame.Hello, s.Console, frame.Broadcast)
}
