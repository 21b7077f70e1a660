// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/u-root/egetty/engine"
	"github.com/u-root/egetty/frame"
	"github.com/u-root/egetty/skb"
	"github.com/u-root/egetty/transport"
)

var v = func(string, ...interface{}) {}

// SetVerbose sets the debug print function.
func SetVerbose(f func(string, ...interface{})) {
	v = f
}

func verbose(f string, a ...interface{}) {
	v("egetty:"+f, a...)
}

// Conn is the network side of a Server. *transport.Conn is one.
type Conn interface {
	engine.Sender
	Receive(ctx context.Context, b *skb.Buffer) (net.HardwareAddr, error)
}

// Host is a hosted process. *session.Session is one.
type Host interface {
	engine.Host
	io.Reader
	Start() error
	Done() <-chan struct{}
	Close() error
}

// Server serves one console.
type Server struct {
	// Console is the console id.
	Console uint8
	// NewHost returns a new Host, not yet started. It is called at
	// startup and whenever the Host exits.
	NewHost func() Host
	// OnAttach, if set, is called when a new client attaches.
	OnAttach func(net.HardwareAddr)
	// Delay is how long to wait before restarting a Host.
	Delay time.Duration

	conn Conn
	pool skb.Pool
	e    *engine.Server
}

type packet struct {
	b    *skb.Buffer
	from net.HardwareAddr
}

// New returns a Server for console c on conn. Frames are at most mtu
// bytes, and never more than skb.DefaultSize, which is all a client
// reads.
func New(c uint8, conn Conn, mtu int, newHost func() Host) *Server {
	if mtu <= frame.MaxHeaderLen || mtu > skb.DefaultSize {
		mtu = skb.DefaultSize
	}
	return &Server{
		Console: c,
		NewHost: newHost,
		conn:    conn,
		pool:    skb.Pool{Size: mtu},
	}
}

// Serve runs the server until ctx is done or a Host can not be
// started. It returns once its goroutines have.
func (s *Server) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.e = engine.NewServer(s.Console, s.conn)
	s.e.OnAttach = s.OnAttach

	netc := make(chan packet)
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.receive(ctx, netc)
	}()

	b := s.pool.Get()
	if err := s.e.Hello(ctx, b); err != nil {
		log.Printf("egetty: announce console %d: %v", s.Console, err)
	}
	s.pool.Put(b)

	for {
		h := s.NewHost()
		if err := h.Start(); err != nil {
			return fmt.Errorf("egetty: console %d: %w", s.Console, err)
		}
		s.e.SetHost(h)
		if err := s.run(ctx, h, netc); err != nil {
			return err
		}
		s.e.SetHost(nil)
		verbose("console %d: respawn", s.Console)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.Delay):
		}
	}
}

// run relays between the network and h until h exits. The read
// goroutine it starts is finished when it returns.
func (s *Server) run(ctx context.Context, h Host, netc <-chan packet) error {
	out := make(chan *skb.Buffer)
	go s.read(ctx, h, out)
	done := h.Done()
	for {
		select {
		case <-ctx.Done():
			s.stop(h, out, done != nil)
			return ctx.Err()

		case p, ok := <-netc:
			if !ok {
				s.stop(h, out, done != nil)
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("egetty: network closed: %w", transport.ErrTransport)
			}
			if err := s.e.Receive(ctx, p.b, p.from); err != nil {
				log.Printf("egetty: %v", err)
			}
			s.pool.Put(p.b)

		case b, ok := <-out:
			if !ok {
				out = nil
				if done == nil {
					return nil
				}
				continue
			}
			if err := s.e.Output(ctx, b); err != nil {
				log.Printf("egetty: %v", err)
			}
			s.pool.Put(b)

		case <-done:
			verbose("child exited")
			done = nil
			// Unblocks read, which closes out.
			if err := h.Close(); err != nil {
				verbose("close host: %v", err)
			}
			if out == nil {
				return nil
			}
		}
	}
}

// stop closes h, unless that was done already, and waits for read to
// close out.
func (s *Server) stop(h Host, out <-chan *skb.Buffer, closeHost bool) {
	if closeHost {
		if err := h.Close(); err != nil {
			verbose("close host: %v", err)
		}
	}
	if out == nil {
		return
	}
	for b := range out {
		s.pool.Put(b)
	}
}

// read reads host output into buffers with room for a header.
func (s *Server) read(ctx context.Context, h io.Reader, out chan<- *skb.Buffer) {
	defer close(out)
	for {
		b := s.pool.Get()
		if err := b.Reserve(frame.MaxHeaderLen); err != nil {
			log.Printf("egetty: %v", err)
			return
		}
		n, err := h.Read(b.Tail())
		if n > 0 {
			if _, perr := b.Put(n); perr != nil {
				log.Printf("egetty: %v", perr)
				return
			}
			select {
			case out <- b:
			case <-ctx.Done():
				return
			}
		} else {
			s.pool.Put(b)
		}
		if err != nil {
			verbose("read from child: %v", err)
			return
		}
	}
}

// receive reads frames from the network. It closes netc when it
// can read no more.
func (s *Server) receive(ctx context.Context, netc chan<- packet) {
	defer close(netc)
	for {
		b := s.pool.Get()
		from, err := s.conn.Receive(ctx, b)
		if err != nil {
			s.pool.Put(b)
			switch {
			case ctx.Err() != nil:
				return
			case errors.Is(err, os.ErrClosed), errors.Is(err, net.ErrClosed):
				log.Printf("egetty: %v", err)
				return
			case errors.Is(err, transport.ErrNotEgetty):
				verbose("%v", err)
			default:
				log.Printf("egetty: %v", err)
			}
			continue
		}
		select {
		case netc <- packet{b: b, from: from}:
		case <-ctx.Done():
			s.pool.Put(b)
			return
		}
	}
}
