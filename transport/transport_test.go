// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/vishvananda/netlink"
)

type fakeLinker struct {
	tries int
	fail  int
	up    bool
}

func (f *fakeLinker) LinkByName(name string) (netlink.Link, error) {
	f.tries++
	if f.tries <= f.fail {
		return nil, errors.New("Link not found")
	}
	d := &netlink.Dummy{LinkAttrs: netlink.NewLinkAttrs()}
	d.Name, d.Index, d.MTU = name, 7, 1500
	d.HardwareAddr = net.HardwareAddr{2, 0, 0, 0, 0, 1}
	return d, nil
}

func (f *fakeLinker) LinkSetUp(link netlink.Link) error {
	f.up = true
	return nil
}

func TestLinkUpWaits(t *testing.T) {
	v = t.Logf
	f := &fakeLinker{fail: 2}
	l, err := linkUp(context.Background(), f, "eth0", time.Millisecond)
	if err != nil {
		t.Fatalf("linkUp(eth0): %v != nil", err)
	}
	if f.tries != 3 || !f.up {
		t.Fatalf("linkUp: %d tries, up %v, want 3 tries and up", f.tries, f.up)
	}
	if l.Name != "eth0" || l.Index != 7 || l.MTU != 1500 || l.HardwareAddr.String() != "02:00:00:00:00:01" {
		t.Fatalf("linkUp: %v", l)
	}
}

func TestLinkUpCancel(t *testing.T) {
	v = t.Logf
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := linkUp(ctx, &fakeLinker{fail: 1 << 30}, "nope0", time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("linkUp(nope0): got %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestHtons(t *testing.T) {
	h := htons(0x6811)
	var mem [2]byte
	binary.NativeEndian.PutUint16(mem[:], h)
	if mem != [2]byte{0x68, 0x11} {
		t.Fatalf("htons(0x6811) in memory: % x != 68 11", mem)
	}
	if ntohs(h) != 0x6811 {
		t.Fatalf("ntohs(htons(0x6811)): %#x != 0x6811", ntohs(h))
	}
}
