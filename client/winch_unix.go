// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package client

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

func (c *Cmd) notifyWinch() (<-chan os.Signal, error) {
	w := make(chan os.Signal, 1)
	signal.Notify(w, unix.SIGWINCH)
	c.closers = append(c.closers, func() error {
		signal.Stop(w)
		return nil
	})
	return w, nil
}
