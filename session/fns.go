// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !plan9 && !windows

package session

import (
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
)

// DefaultCommand is what egetty runs when it is not told otherwise.
const DefaultCommand = "/bin/login --"

// ParseCommand splits a shell-style command line, e.g. the -cmd flag,
// into a command and its arguments.
func ParseCommand(s string) (string, []string, error) {
	if len(strings.TrimSpace(s)) == 0 {
		return "", nil, fmt.Errorf("command %q: empty: %w", s, ErrHost)
	}
	a, err := shlex.Split(s, true)
	if err != nil {
		return "", nil, fmt.Errorf("command %q: %v: %w", s, err, ErrHost)
	}
	if len(a) == 0 {
		return "", nil, fmt.Errorf("command %q: empty: %w", s, ErrHost)
	}
	return a[0], a[1:], nil
}

// errval can be used to examine errors that we don't consider errors
func errval(err error) error {
	if err == nil {
		return err
	}
	// When egetty is init, the zombie reaper can grab the child's
	// exit state before Wait does.
	if strings.Contains(err.Error(), "no child process") {
		return nil
	}
	return err
}
