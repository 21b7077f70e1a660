// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package client implements econsole, the client for egetty.
//
// A Cmd attaches the local terminal to one egetty console: the
// terminal is put in raw mode, keystrokes go out as IN frames, OUT
// frames are written to Stdout, and window size changes go out as
// WINCH frames. Typing Ctrl-] on its own ends the session and
// restores the terminal.
//
// With Scan set, a Cmd instead broadcasts a SCAN and prints a line for
// every egetty that answers.
package client
