// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame encodes and decodes egetty frames.
//
// Every frame starts with a kind byte and a console byte. HELLO, IN
// and OUT follow that with a big-endian 16-bit length which counts the
// whole frame, header included. WINCH follows it with a row byte and a
// column byte. The other kinds are two bytes long.
//
// Frames are built and parsed in place in an skb.Buffer: encoding
// pushes a header in front of a payload already in the buffer, and
// decoding pulls the header off, leaving the payload as the buffer's
// data.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"

	"github.com/u-root/egetty/skb"
)

// EtherType is the link-layer protocol number egetty frames are sent with.
const EtherType = 0x6811

const (
	// HeaderLen is the size of the kind and console bytes.
	HeaderLen = 2
	// LongHeaderLen is the header size of length-bearing kinds and WINCH.
	LongHeaderLen = 4
	// MaxHeaderLen is the headroom to Reserve before reading a payload.
	MaxHeaderLen = LongHeaderLen
)

// Kind is the first byte of a frame.
type Kind uint8

const (
	Scan  Kind = iota // client to broadcast: who is out there?
	KMsg              // reserved
	Hup               // hang up the hosted session
	Hello             // server to broadcast: answer to Scan
	In                // keystrokes, client to server
	Out               // output, server to client
	Winch             // window size, client to server
)

var kindNames = map[Kind]string{
	Scan:  "SCAN",
	KMsg:  "KMSG",
	Hup:   "HUP",
	Hello: "HELLO",
	In:    "IN",
	Out:   "OUT",
	Winch: "WINCH",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// HasLength reports whether frames of kind k carry a length field.
func (k Kind) HasLength() bool {
	switch k {
	case Hello, In, Out:
		return true
	}
	return false
}

// HeaderLen returns the size of the header for kind k.
func (k Kind) HeaderLen() int {
	if k.HasLength() || k == Winch {
		return LongHeaderLen
	}
	return HeaderLen
}

// ErrMalformed is returned for frames that can not be decoded.
var ErrMalformed = errors.New("malformed frame")

// Broadcast is the all-ones hardware address.
var Broadcast = net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// Frame is a decoded frame header. The payload is not part of Frame;
// it is the data left in the buffer after Decode.
type Frame struct {
	Kind    Kind
	Console uint8
	// Length is the declared total length for HELLO, IN and OUT.
	Length uint16
	// Rows and Cols are set for WINCH.
	Rows uint8
	Cols uint8
}

func (f Frame) String() string {
	switch {
	case f.Kind == Winch:
		return fmt.Sprintf("%v console %d %dx%d", f.Kind, f.Console, f.Rows, f.Cols)
	case f.Kind.HasLength():
		return fmt.Sprintf("%v console %d len %d", f.Kind, f.Console, f.Length)
	}
	return fmt.Sprintf("%v console %d", f.Kind, f.Console)
}

func malformed(f string, a ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(f, a...), ErrMalformed)
}

// Decode parses the frame at the start of b. On success, b holds only
// the payload, with transport padding past the declared length
// dropped. On failure b is unchanged.
func Decode(b *skb.Buffer) (Frame, error) {
	p := b.Bytes()
	if len(p) < HeaderLen {
		return Frame{}, malformed("%d byte frame", len(p))
	}
	f := Frame{Kind: Kind(p[0]), Console: p[1]}
	if !f.Kind.Valid() {
		return Frame{}, malformed("unknown kind %d", p[0])
	}
	hl := f.Kind.HeaderLen()
	if len(p) < hl {
		return Frame{}, malformed("%v: %d byte frame, header is %d", f.Kind, len(p), hl)
	}
	switch {
	case f.Kind == Winch:
		f.Rows, f.Cols = p[2], p[3]
		if err := b.Pull(hl); err != nil {
			return Frame{}, err
		}
		return f, b.Trim(0)
	case f.Kind.HasLength():
		f.Length = binary.BigEndian.Uint16(p[2:4])
		if int(f.Length) > len(p) {
			return Frame{}, malformed("%v: length field %d, received %d", f.Kind, f.Length, len(p))
		}
		if int(f.Length) < hl {
			return Frame{}, malformed("%v: length field %d shorter than header", f.Kind, f.Length)
		}
		if err := b.Trim(int(f.Length)); err != nil {
			return Frame{}, err
		}
	}
	return f, b.Pull(hl)
}

// Encode pushes the header for kind k on console c in front of the
// payload in b. For length-bearing kinds the length written is the
// size of the whole frame. b must have at least k.HeaderLen() bytes
// of headroom. WINCH has its own encoder.
func Encode(b *skb.Buffer, k Kind, c uint8) error {
	if !k.Valid() || k == Winch {
		return fmt.Errorf("Encode(%v): %w", k, ErrMalformed)
	}
	h, err := b.Push(k.HeaderLen())
	if err != nil {
		return err
	}
	h[0], h[1] = byte(k), c
	if k.HasLength() {
		if b.Len() > 0xffff {
			return fmt.Errorf("Encode(%v): %d byte frame: %w", k, b.Len(), skb.ErrOutOfRange)
		}
		binary.BigEndian.PutUint16(h[2:4], uint16(b.Len()))
	}
	return nil
}

// EncodeWinch appends a WINCH frame to b. There is no payload to
// prepend to, so the whole frame is written into the tail.
func EncodeWinch(b *skb.Buffer, c, rows, cols uint8) error {
	p, err := b.Put(LongHeaderLen)
	if err != nil {
		return err
	}
	p[0], p[1], p[2], p[3] = byte(Winch), c, rows, cols
	return nil
}

// Clamp converts a terminal dimension to the single byte WINCH carries.
func Clamp(n int) uint8 {
	switch {
	case n < 0:
		return 0
	case n > 0xff:
		return 0xff
	}
	return uint8(n)
}
