// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux && !plan9 && !windows

package session

import (
	"fmt"
	"os"
)

func redirectConsole(tty *os.File) error {
	return fmt.Errorf("console redirect is only supported on Linux: %w", os.ErrInvalid)
}
