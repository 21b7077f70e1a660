// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"bytes"
	"net"

	"github.com/u-root/egetty/frame"
)

// State is the attach state of a server Session.
type State int

const (
	// AwaitingClient means no IN frame has been accepted yet.
	AwaitingClient State = iota
	// Attached means Client holds the address of the last sender.
	Attached
)

func (s State) String() string {
	if s == Attached {
		return "attached"
	}
	return "awaiting client"
}

// Session binds a console number to the client that last typed on it
// and to the hosted process.
// There is no connect or disconnect: whoever sends a valid IN frame
// becomes the client, and stays the client until someone else does.
type Session struct {
	Console uint8

	client net.HardwareAddr
	host   Host
}

// State returns the attach state.
func (s *Session) State() State {
	if s.client == nil {
		return AwaitingClient
	}
	return Attached
}

// Client returns the attached client's address, or nil.
func (s *Session) Client() net.HardwareAddr {
	return s.client
}

// Destination returns where output goes: the attached client, or
// broadcast if nobody has attached.
func (s *Session) Destination() net.HardwareAddr {
	if s.client == nil {
		return frame.Broadcast
	}
	return s.client
}

// Attach makes addr the client. It reports whether the client changed.
// addr is copied, since it usually points into a receive buffer.
func (s *Session) Attach(addr net.HardwareAddr) bool {
	if s.client != nil && bytes.Equal(s.client, addr) {
		return false
	}
	s.client = append(net.HardwareAddr(nil), addr...)
	return true
}

// Host returns the hosted process, which may be nil between a process
// exiting and its replacement starting.
func (s *Session) Host() Host {
	return s.host
}

// SetHost replaces the hosted process. The attached client is kept.
func (s *Session) SetHost(h Host) {
	s.host = h
}
