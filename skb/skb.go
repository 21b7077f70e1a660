// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package skb

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultSize is the size of buffers handed out by a zero Pool.
// It is one Ethernet payload.
const DefaultSize = 1500

// ErrOutOfRange is returned when an operation would move a cursor
// outside the allocation or past another cursor.
var ErrOutOfRange = errors.New("skb: out of range")

// Buffer is a packet buffer. The zero value has no allocation; use New.
type Buffer struct {
	buf  []byte
	data int
	tail int
}

// New returns a Buffer with an allocation of size bytes, all of it tailroom.
func New(size int) *Buffer {
	if size < 0 {
		size = 0
	}
	return &Buffer{buf: make([]byte, size)}
}

func (b *Buffer) String() string {
	return fmt.Sprintf("skb{head 0 data %d tail %d end %d}", b.data, b.tail, len(b.buf))
}

func rangeErr(op string, n, room int) error {
	return fmt.Errorf("%s(%d) with %d available: %w", op, n, room, ErrOutOfRange)
}

// Len returns the number of bytes between data and tail.
func (b *Buffer) Len() int {
	return b.tail - b.data
}

// Cap returns the size of the allocation.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Headroom returns the number of bytes that can be Pushed.
func (b *Buffer) Headroom() int {
	return b.data
}

// Tailroom returns the number of bytes that can be Put.
func (b *Buffer) Tailroom() int {
	return len(b.buf) - b.tail
}

// Bytes returns the data region. It aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.buf[b.data:b.tail]
}

// Tail returns the tailroom as a window a reader can fill before
// calling Put with the number of bytes read.
func (b *Buffer) Tail() []byte {
	return b.buf[b.tail:]
}

// Reset makes the whole allocation tailroom again.
func (b *Buffer) Reset() {
	b.data, b.tail = 0, 0
}

// Reserve creates n bytes of headroom. It is only valid on an empty
// buffer, usually right after Reset.
func (b *Buffer) Reserve(n int) error {
	if b.Len() != 0 {
		return fmt.Errorf("reserve(%d) on buffer holding %d bytes: %w", n, b.Len(), ErrOutOfRange)
	}
	if n < 0 || n > b.Tailroom() {
		return rangeErr("reserve", n, b.Tailroom())
	}
	b.data += n
	b.tail += n
	return nil
}

// Put appends n bytes and returns them as a window for the caller to fill.
func (b *Buffer) Put(n int) ([]byte, error) {
	if n < 0 || n > b.Tailroom() {
		return nil, rangeErr("put", n, b.Tailroom())
	}
	w := b.buf[b.tail : b.tail+n]
	b.tail += n
	return w, nil
}

// Push prepends n bytes and returns them as a window for the caller to fill.
func (b *Buffer) Push(n int) ([]byte, error) {
	if n < 0 || n > b.Headroom() {
		return nil, rangeErr("push", n, b.Headroom())
	}
	b.data -= n
	return b.buf[b.data : b.data+n], nil
}

// Pull discards n bytes from the front of the data.
func (b *Buffer) Pull(n int) error {
	if n < 0 || n > b.Len() {
		return rangeErr("pull", n, b.Len())
	}
	b.data += n
	return nil
}

// Trim sets the length of the data to exactly n bytes, dropping
// anything after it. n may not exceed the current length.
func (b *Buffer) Trim(n int) error {
	if n < 0 || n > b.Len() {
		return rangeErr("trim", n, b.Len())
	}
	b.tail = b.data + n
	return nil
}

// Pool is a set of reusable buffers of one size.
// Buffers from a Pool are reset on Get.
type Pool struct {
	// Size is the allocation size of new buffers. Zero means DefaultSize.
	Size int

	once sync.Once
	p    sync.Pool
}

func (p *Pool) init() {
	p.once.Do(func() {
		size := p.Size
		if size <= 0 {
			size = DefaultSize
		}
		p.p.New = func() interface{} { return New(size) }
	})
}

// Get returns an empty buffer the caller owns until Put.
func (p *Pool) Get() *Buffer {
	p.init()
	b := p.p.Get().(*Buffer)
	b.Reset()
	return b
}

// Put returns b to the pool. The caller must not use b afterwards.
func (p *Pool) Put(b *Buffer) {
	if b == nil {
		return
	}
	p.init()
	b.Reset()
	p.p.Put(b)
}
