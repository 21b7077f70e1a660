// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !plan9 && !windows

package session

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"github.com/hashicorp/go-multierror"
)

// ErrHost wraps failures to start or talk to the hosted process.
var ErrHost = errors.New("process host")

// Session is one hosted process on a pty.
type Session struct {
	// Console, if set, redirects the kernel console to the pty.
	Console bool
	// Env is added to the environment of the process.
	Env []string

	cmd  string
	args []string

	c    *exec.Cmd
	ptm  *os.File
	done chan struct{}
	err  error
}

var v = func(string, ...interface{}) {}

// SetVerbose sets the debug print function.
func SetVerbose(f func(string, ...interface{})) {
	v = f
}

// New returns a Session that will run cmd with args.
func New(cmd string, args ...string) *Session {
	return &Session{cmd: cmd, args: args, done: make(chan struct{})}
}

func (s *Session) String() string {
	return strings.Join(append([]string{s.cmd}, s.args...), " ")
}

// Start allocates a pty and starts the process with the pty as its
// controlling terminal and stdio.
func (s *Session) Start() error {
	if s.c != nil {
		return fmt.Errorf("%v: already started: %w", s, ErrHost)
	}
	ptm, pts, err := pty.Open()
	if err != nil {
		return fmt.Errorf("pty.Open: %v: %w", err, ErrHost)
	}
	if s.Console {
		if err := redirectConsole(pts); err != nil {
			v("failed to redirect console: %v", err)
		} else {
			v("redirected console")
		}
	}

	c := exec.Command(s.cmd, s.args...)
	c.Env = append(os.Environ(), s.Env...)
	c.Stdin, c.Stdout, c.Stderr = pts, pts, pts
	c.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}
	if err := c.Start(); err != nil {
		ptm.Close()
		pts.Close()
		return fmt.Errorf("start %v: %v: %w", s, err, ErrHost)
	}
	// The child has its own copy now.
	pts.Close()

	s.c, s.ptm = c, ptm
	v("child pid = %d", c.Process.Pid)
	go func() {
		s.err = errval(c.Wait())
		v("child %d exited: %v", c.Process.Pid, s.err)
		close(s.done)
	}()
	return nil
}

// Pid returns the process id, or -1 if the Session is not started.
func (s *Session) Pid() int {
	if s.c == nil {
		return -1
	}
	return s.c.Process.Pid
}

// Read reads what the process wrote to its terminal. Once the process
// is gone it returns an error (EIO on Linux).
func (s *Session) Read(p []byte) (int, error) {
	if s.ptm == nil {
		return 0, fmt.Errorf("read: not started: %w", ErrHost)
	}
	return s.ptm.Read(p)
}

// Write types p at the process.
func (s *Session) Write(p []byte) (int, error) {
	if s.ptm == nil {
		return 0, fmt.Errorf("write: not started: %w", ErrHost)
	}
	return s.ptm.Write(p)
}

// SetWinsize sets the terminal size. The process gets a SIGWINCH.
func (s *Session) SetWinsize(rows, cols uint16) error {
	if s.ptm == nil {
		return fmt.Errorf("winsize: not started: %w", ErrHost)
	}
	return pty.Setsize(s.ptm, &pty.Winsize{Rows: rows, Cols: cols})
}

// Terminate kills the process. Done is closed once it is reaped.
func (s *Session) Terminate() error {
	if s.c == nil || s.Exited() {
		return nil
	}
	v("kill %d", s.c.Process.Pid)
	if err := s.c.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// Done returns a channel that is closed when the process has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Exited reports, without blocking, whether the process has exited.
func (s *Session) Exited() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Wait waits for the process to exit and returns its error.
func (s *Session) Wait() error {
	if s.c == nil {
		return fmt.Errorf("wait: not started: %w", ErrHost)
	}
	<-s.done
	return s.err
}

// Close kills the process if it is still running, waits for it to be
// reaped, and closes the pty.
func (s *Session) Close() error {
	var errs error
	if err := s.Terminate(); err != nil {
		errs = multierror.Append(errs, err)
	} else if s.c != nil {
		<-s.done
	}
	if s.ptm != nil {
		if err := s.ptm.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}
