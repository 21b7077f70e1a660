// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// redirectConsole makes tty the kernel console. If another terminal
// already has it, TIOCCONS on /dev/tty0 gives it back to the default
// console first, and the redirect is retried.
func redirectConsole(tty *os.File) error {
	err := unix.IoctlSetInt(int(tty.Fd()), unix.TIOCCONS, 0)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EBUSY) {
		return fmt.Errorf("TIOCCONS %s: %w", tty.Name(), err)
	}
	v("console busy, resetting via /dev/tty0")
	t0, oerr := os.OpenFile("/dev/tty0", os.O_WRONLY, 0)
	if oerr != nil {
		return fmt.Errorf("TIOCCONS %s: %v, and %w", tty.Name(), err, oerr)
	}
	defer t0.Close()
	if err := unix.IoctlSetInt(int(t0.Fd()), unix.TIOCCONS, 0); err != nil {
		return fmt.Errorf("TIOCCONS /dev/tty0: %w", err)
	}
	if err := unix.IoctlSetInt(int(tty.Fd()), unix.TIOCCONS, 0); err != nil {
		return fmt.Errorf("TIOCCONS %s: %w", tty.Name(), err)
	}
	return nil
}
