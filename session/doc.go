// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session hosts the interactive process an egetty exposes,
// i.e. the login started on a pseudo-terminal.
//
// New(cmd string, args ...string) creates a new Session. Sessions are
// similar to exec.Command, except that Start always allocates a pty
// and the Session itself is the byte stream: Read returns what the
// process writes to its terminal, and Write types at it. SetWinsize
// changes the terminal size, and Terminate kills the process.
//
// egetty never waits on a Session in its main loop. Instead it selects
// on Done, and starts a new Session when the old one exits. Exited
// reports the same thing without blocking.
//
// If Console is set, Start redirects kernel console output (printk,
// what was traditionally called kmsg) to the new terminal with
// TIOCCONS, so it shows up on the remote console. This is Linux only.
package session
