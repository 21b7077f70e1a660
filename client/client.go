// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/u-root/egetty/engine"
	"github.com/u-root/egetty/frame"
	"github.com/u-root/egetty/skb"
	"github.com/u-root/egetty/transport"
	"github.com/u-root/u-root/pkg/termios"
	"golang.org/x/term"
)

// V allows debug printing.
var V = func(string, ...interface{}) {}

// Conn is the network side of a Cmd. *transport.Conn is one.
type Conn interface {
	engine.Sender
	Receive(ctx context.Context, b *skb.Buffer) (net.HardwareAddr, error)
}

// Cmd is an econsole.
// As in exec.Command, these controls are exposed and can be set
// directly.
type Cmd struct {
	Console uint8
	// Dest is the egetty's hardware address. If nil, econsole
	// broadcasts, and whichever egetty has Console answers.
	Dest net.HardwareAddr
	// Scan lists consoles instead of attaching to one.
	Scan bool
	// Timeout, if not zero, ends a Scan.
	Timeout time.Duration

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Row    int
	Col    int
	// Winch signals a window size change. Size is then called to
	// get the new size.
	Winch <-chan os.Signal
	Size  func() (rows, cols int, err error)

	conn    Conn
	pool    skb.Pool
	closers []func() error
}

type packet struct {
	b    *skb.Buffer
	from net.HardwareAddr
}

// Command returns a Cmd for console c, talking through conn.
func Command(conn Conn, c uint8, dest net.HardwareAddr) *Cmd {
	row, col := 24, 80
	if w, h, err := term.GetSize(int(os.Stdin.Fd())); err != nil {
		V("Can not get winsize: %v; assuming %dx%d", err, row, col)
	} else {
		row, col = h, w
	}
	return &Cmd{
		Console: c,
		Dest:    dest,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Row:     row,
		Col:     col,
		Size:    stdinSize,
		conn:    conn,
		pool:    skb.Pool{Size: skb.DefaultSize},
	}
}

func stdinSize() (int, int, error) {
	w, h, err := term.GetSize(int(os.Stdin.Fd()))
	return h, w, err
}

// SetupInteractive puts the terminal in raw mode and watches for
// window size changes. Close undoes it. If stdin is not a terminal,
// it does nothing.
func (c *Cmd) SetupInteractive() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		V("stdin is not a terminal")
		return nil
	}
	t, err := termios.New()
	if err != nil {
		return err
	}
	r, err := t.Raw()
	if err != nil {
		return err
	}
	V("raw mode, was %v", r)
	c.closers = append(c.closers, func() error {
		return t.Set(r)
	})
	c.Winch, err = c.notifyWinch()
	return err
}

// Run runs the session until ctx is done, the user detaches, or stdin
// ends. Detaching is not an error.
func (c *Cmd) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e := engine.NewClient(c.Console, c.Dest, c.conn, c.Stdout)

	netc := make(chan packet)
	go c.receive(ctx, netc)

	var in chan *skb.Buffer
	var timeout <-chan time.Time
	b := c.pool.Get()
	if c.Scan {
		e.Mode = engine.Discovering
		e.Found = func(id uint8, from net.HardwareAddr) {
			fmt.Fprintf(c.Stdout, "Console: %d %v\n", id, from)
		}
		fmt.Fprintf(c.Stderr, "Scanning for econsoles\n")
		if err := e.Scan(ctx, b); err != nil {
			c.pool.Put(b)
			return err
		}
		if c.Timeout > 0 {
			timeout = time.After(c.Timeout)
		}
	} else {
		if err := e.Resize(ctx, b, c.Row, c.Col); err != nil {
			log.Printf("econsole: %v", err)
		}
		fmt.Fprintf(c.Stderr, "Use CTRL-] to close connection.\r\n")
		in = make(chan *skb.Buffer)
		go c.read(ctx, in)
	}
	c.pool.Put(b)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timeout:
			return nil

		case p, ok := <-netc:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("econsole: network closed: %w", transport.ErrTransport)
			}
			if err := e.Receive(ctx, p.b, p.from); err != nil {
				log.Printf("econsole: %v", err)
			}
			c.pool.Put(p.b)

		case b, ok := <-in:
			if !ok {
				V("stdin closed")
				return nil
			}
			err := e.Input(ctx, b)
			c.pool.Put(b)
			if errors.Is(err, engine.ErrDetached) {
				V("detached")
				return nil
			}
			if err != nil {
				log.Printf("econsole: %v", err)
			}

		case <-c.Winch:
			rows, cols, err := c.Size()
			if err != nil {
				V("winsize: %v", err)
				continue
			}
			c.Row, c.Col = rows, cols
			b := c.pool.Get()
			if err := e.Resize(ctx, b, rows, cols); err != nil {
				log.Printf("econsole: %v", err)
			}
			c.pool.Put(b)
		}
	}
}

// read reads keystrokes into buffers with room for a header.
func (c *Cmd) read(ctx context.Context, in chan<- *skb.Buffer) {
	defer close(in)
	for {
		b := c.pool.Get()
		if err := b.Reserve(frame.MaxHeaderLen); err != nil {
			log.Printf("econsole: %v", err)
			return
		}
		n, err := c.Stdin.Read(b.Tail())
		if n > 0 {
			if _, perr := b.Put(n); perr != nil {
				log.Printf("econsole: %v", perr)
				return
			}
			select {
			case in <- b:
			case <-ctx.Done():
				return
			}
		} else {
			c.pool.Put(b)
		}
		if err != nil {
			V("stdin: %v", err)
			return
		}
	}
}

// receive reads frames from the network. It closes netc when it can
// read no more.
func (c *Cmd) receive(ctx context.Context, netc chan<- packet) {
	defer close(netc)
	for {
		b := c.pool.Get()
		from, err := c.conn.Receive(ctx, b)
		if err != nil {
			c.pool.Put(b)
			switch {
			case ctx.Err() != nil:
				return
			case errors.Is(err, os.ErrClosed), errors.Is(err, net.ErrClosed):
				log.Printf("econsole: %v", err)
				return
			case errors.Is(err, transport.ErrNotEgetty):
				V("%v", err)
			default:
				log.Printf("econsole: %v", err)
			}
			continue
		}
		select {
		case netc <- packet{b: b, from: from}:
		case <-ctx.Done():
			c.pool.Put(b)
			return
		}
	}
}

// Close ends an econsole session, doing whatever is needed.
func (c *Cmd) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if e := c.closers[i](); e != nil {
			err = multierror.Append(err, e)
		}
	}
	c.closers = nil
	return err
}
