// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package mount

import (
	"errors"
	"fmt"
)

// DefaultFSTab is empty: only Linux egetty runs as init.
const DefaultFSTab = ""

// Mount is only supported on Linux.
func Mount(fstab string) error {
	if len(fstab) == 0 {
		return nil
	}
	return fmt.Errorf("mount: %w", errors.ErrUnsupported)
}
