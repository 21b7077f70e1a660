// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/u-root/egetty/config"
	"github.com/u-root/egetty/engine"
	"github.com/u-root/egetty/frame"
	"github.com/u-root/egetty/mount"
	"github.com/u-root/egetty/server"
	"github.com/u-root/egetty/session"
	"github.com/u-root/egetty/transport"
	"github.com/u-root/u-root/pkg/ulog"
	"golang.org/x/sys/unix"
)

// A modifier adds to a server before it runs. It returns a function
// to run when the server is done.
type modifier struct {
	name string
	f    func(*server.Server, transport.Link) (func(), error)
}

var modifiers []*modifier

func commonsetup(cfg config.Config) {
	if !cfg.Debug {
		return
	}
	log.Printf("Debug mode")
	v = log.Printf
	if *klog {
		ulog.KernelLog.Reinit()
		v = ulog.KernelLog.Printf
	}
	engine.SetVerbose(v)
	server.SetVerbose(v)
	session.SetVerbose(v)
	transport.SetVerbose(v)
}

// initsetup mounts what a login needs. Failures are logged, not
// fatal: a console with no /proc is better than no console.
func initsetup() {
	if err := mount.Mount(mount.DefaultFSTab); err != nil {
		log.Printf("EGETTY: init mounts: %v", err)
	}
}

func serve(cfg config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer cancel()

	name, args, err := session.ParseCommand(cfg.Command)
	if err != nil {
		return err
	}

	link, err := transport.LinkUp(ctx, cfg.Interface, *wait)
	if err != nil {
		return err
	}
	verbose("interface %v is up", link)

	conn, err := transport.Listen(link, frame.EtherType)
	if err != nil {
		return err
	}
	defer conn.Close()

	s := server.New(cfg.Console, conn, link.MTU, func() server.Host {
		h := session.New(name, args...)
		h.Console = cfg.KMsg
		return h
	})
	s.Delay = *respawn

	for _, m := range modifiers {
		verbose("apply %s", m.name)
		done, err := m.f(s, link)
		if err != nil {
			return fmt.Errorf("%s: %w", m.name, err)
		}
		defer done()
	}

	log.Printf("EGETTY: console %d on %v", cfg.Console, link)
	if err := s.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
