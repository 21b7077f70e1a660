// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package client

import "os"

// There is no SIGWINCH here; the size sent at startup is all we send.
func (c *Cmd) notifyWinch() (<-chan os.Signal, error) {
	return nil, nil
}
