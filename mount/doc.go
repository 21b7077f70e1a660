// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mount mounts what egetty needs when it runs as init.
//
// A login needs a pty, and a pty needs /dev/pts. On a system where
// egetty is pid 1 nobody else will have mounted it, so egetty mounts
// DefaultFSTab itself before it starts the first login.
package mount
