// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	sshconfig "github.com/kevinburke/ssh_config"
)

// Hosts maps host aliases to console settings.
type Hosts struct {
	c *sshconfig.Config
}

// DefaultHostsFile returns ~/.econsole/config, or "" if there is no
// home directory.
func DefaultHostsFile() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(h, ".econsole", "config")
}

// LoadHosts reads a hosts file. A missing file is not an error; it
// just has no hosts.
func LoadHosts(path string) (*Hosts, error) {
	if path == "" {
		return &Hosts{}, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Hosts{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hosts file: %v: %w", err, ErrConfig)
	}
	defer f.Close()
	return DecodeHosts(f)
}

// DecodeHosts parses a hosts file from r.
func DecodeHosts(r io.Reader) (*Hosts, error) {
	c, err := sshconfig.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("hosts file: %v: %w", err, ErrConfig)
	}
	return &Hosts{c: c}, nil
}

func (h *Hosts) get(alias, key string) (string, error) {
	if h == nil || h.c == nil {
		return "", nil
	}
	return h.c.Get(alias, key)
}

// Apply sets whatever the hosts file says about alias in c, and
// reports whether it said anything.
func (c *Config) Apply(h *Hosts, alias string) (bool, error) {
	var found bool
	ifname, err := h.get(alias, "Interface")
	if err != nil {
		return false, fmt.Errorf("host %q: %v: %w", alias, err, ErrConfig)
	}
	cons, err := h.get(alias, "Console")
	if err != nil {
		return false, fmt.Errorf("host %q: %v: %w", alias, err, ErrConfig)
	}
	hw, err := h.get(alias, "HardwareAddress")
	if err != nil {
		return false, fmt.Errorf("host %q: %v: %w", alias, err, ErrConfig)
	}
	if len(cons) != 0 {
		n, err := strconv.ParseUint(cons, 10, 8)
		if err != nil {
			return false, fmt.Errorf("host %q: Console %q: %v: %w", alias, cons, err, ErrConfig)
		}
		c.Console = uint8(n)
		found = true
	}
	if len(hw) != 0 {
		m, err := ParseMAC(hw)
		if err != nil {
			return false, fmt.Errorf("host %q: %w", alias, err)
		}
		c.Dest = m
		found = true
	}
	if len(ifname) != 0 {
		c.Interface = ifname
		found = true
	}
	return found, nil
}
