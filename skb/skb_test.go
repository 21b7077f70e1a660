// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package skb

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func check(t *testing.T, b *Buffer, where string) {
	t.Helper()
	if b.data < 0 || b.data > b.tail || b.tail > len(b.buf) {
		t.Fatalf("%s: invariant broken: %v", where, b)
	}
	if b.Headroom()+b.Len()+b.Tailroom() != b.Cap() {
		t.Fatalf("%s: headroom %d + len %d + tailroom %d != cap %d", where, b.Headroom(), b.Len(), b.Tailroom(), b.Cap())
	}
}

func TestNew(t *testing.T) {
	b := New(64)
	if b.Len() != 0 || b.Headroom() != 0 || b.Tailroom() != 64 {
		t.Fatalf("New(64): len %d headroom %d tailroom %d, want 0 0 64", b.Len(), b.Headroom(), b.Tailroom())
	}
}

func TestBuild(t *testing.T) {
	b := New(32)
	if err := b.Reserve(4); err != nil {
		t.Fatalf("Reserve(4): %v != nil", err)
	}
	n := copy(b.Tail(), "hello")
	if _, err := b.Put(n); err != nil {
		t.Fatalf("Put(%d): %v != nil", n, err)
	}
	h, err := b.Push(4)
	if err != nil {
		t.Fatalf("Push(4): %v != nil", err)
	}
	copy(h, "HDR:")
	if got, want := string(b.Bytes()), "HDR:hello"; got != want {
		t.Fatalf("Bytes(): %q != %q", got, want)
	}
	if err := b.Pull(4); err != nil {
		t.Fatalf("Pull(4): %v != nil", err)
	}
	if err := b.Trim(4); err != nil {
		t.Fatalf("Trim(4): %v != nil", err)
	}
	if got, want := string(b.Bytes()), "hell"; got != want {
		t.Fatalf("Bytes(): %q != %q", got, want)
	}
	check(t, b, "build")
}

// TestPushDoesNotCopy makes sure a header lands directly in front of
// the payload in the same allocation.
func TestPushDoesNotCopy(t *testing.T) {
	b := New(16)
	if err := b.Reserve(2); err != nil {
		t.Fatal(err)
	}
	p, err := b.Put(3)
	if err != nil {
		t.Fatal(err)
	}
	copy(p, "abc")
	h, err := b.Push(2)
	if err != nil {
		t.Fatal(err)
	}
	if &h[0] != &b.buf[0] || &p[0] != &b.buf[2] {
		t.Fatalf("Push/Put windows do not alias the allocation")
	}
}

func TestOutOfRange(t *testing.T) {
	for _, tt := range []struct {
		name string
		op   func(b *Buffer) error
	}{
		{"push with no headroom", func(b *Buffer) error { _, err := b.Push(1); return err }},
		{"put past end", func(b *Buffer) error { _, err := b.Put(9); return err }},
		{"pull past tail", func(b *Buffer) error { return b.Pull(1) }},
		{"trim longer", func(b *Buffer) error { return b.Trim(1) }},
		{"reserve past end", func(b *Buffer) error { return b.Reserve(9) }},
		{"negative put", func(b *Buffer) error { _, err := b.Put(-1); return err }},
		{"negative pull", func(b *Buffer) error { return b.Pull(-1) }},
		{"reserve with data", func(b *Buffer) error {
			if _, err := b.Put(1); err != nil {
				return err
			}
			return b.Reserve(1)
		}},
	} {
		b := New(8)
		err := tt.op(b)
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: got %v, want %v", tt.name, err, ErrOutOfRange)
		}
		check(t, b, tt.name)
	}
}

func TestFailedOpLeavesBufferAlone(t *testing.T) {
	b := New(8)
	if err := b.Reserve(2); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Put(3); err != nil {
		t.Fatal(err)
	}
	before := *b
	if _, err := b.Push(3); err == nil {
		t.Fatalf("Push(3) with headroom 2: nil != %v", ErrOutOfRange)
	}
	if _, err := b.Put(4); err == nil {
		t.Fatalf("Put(4) with tailroom 3: nil != %v", ErrOutOfRange)
	}
	if b.data != before.data || b.tail != before.tail {
		t.Fatalf("failed ops moved cursors: %v != %v", b, &before)
	}
}

func TestInvariantRandomOps(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, size := range []int{0, 1, 4, 64, DefaultSize} {
		b := New(size)
		for i := 0; i < 2000; i++ {
			var err error
			switch r.Intn(6) {
			case 0:
				_, err = b.Push(r.Intn(b.Headroom() + 1))
			case 1:
				_, err = b.Put(r.Intn(b.Tailroom() + 1))
			case 2:
				err = b.Pull(r.Intn(b.Len() + 1))
			case 3:
				err = b.Trim(r.Intn(b.Len() + 1))
			case 4:
				b.Reset()
				err = b.Reserve(r.Intn(b.Tailroom() + 1))
			case 5:
				b.Reset()
			}
			if err != nil {
				t.Fatalf("size %d op %d: %v != nil", size, i, err)
			}
			check(t, b, "random")
		}
	}
}

func TestResetIdempotent(t *testing.T) {
	b := New(100)
	if err := b.Reserve(10); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Put(50); err != nil {
		t.Fatal(err)
	}
	if err := b.Pull(5); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		b.Reset()
		if b.Len() != 0 || b.Headroom() != 0 || b.Tailroom() != 100 {
			t.Fatalf("Reset #%d: len %d headroom %d tailroom %d, want 0 0 100", i, b.Len(), b.Headroom(), b.Tailroom())
		}
	}
}

func TestPool(t *testing.T) {
	p := &Pool{Size: 32}
	b := p.Get()
	if b.Cap() != 32 || b.Len() != 0 {
		t.Fatalf("Get(): cap %d len %d, want 32 0", b.Cap(), b.Len())
	}
	copy(b.Tail(), "junk")
	if _, err := b.Put(4); err != nil {
		t.Fatal(err)
	}
	p.Put(b)
	b = p.Get()
	if b.Len() != 0 || b.Headroom() != 0 {
		t.Fatalf("Get() after Put: len %d headroom %d, want 0 0", b.Len(), b.Headroom())
	}

	var d Pool
	if got := d.Get().Cap(); got != DefaultSize {
		t.Fatalf("zero Pool Get().Cap(): %d != %d", got, DefaultSize)
	}
	if !bytes.Equal(New(0).Bytes(), []byte{}) {
		t.Fatalf("New(0).Bytes() is not empty")
	}
}
