// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the settings egetty and econsole run with.
//
// Both commands take flags, but also the positional words the
// traditional tools took, in any order:
//
//	egetty [DEV] [CONSOLE] [console] [debug]
//	econsole [DEV] [CONSOLE] [DESTMAC] [scan|debug]
//
// A word of one or two characters starting with a digit is a console
// id. A word containing ':' is a destination hardware address, unless
// it starts with "dnssd:", in which case it is a DNS-SD query. The
// keywords set flags. Anything else is the interface name.
//
// econsole also reads an ssh_config style file, by default
// ~/.econsole/config, so that a host alias can name an interface,
// console and hardware address:
//
//	Host lab1
//		Interface eth1
//		Console 3
//		HardwareAddress 52:54:00:12:34:56
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultInterface is used when no interface is named.
const DefaultInterface = "eth0"

// ErrConfig wraps argument and host file errors.
var ErrConfig = errors.New("config")

// Config is built once, in main, and passed by value.
type Config struct {
	// Interface is the network interface to bind to.
	Interface string
	// Console is the console id, 0-255.
	Console uint8
	// Dest is the server's hardware address. If nil, econsole
	// broadcasts.
	Dest net.HardwareAddr
	// Query is a DNS-SD query used to find Dest.
	Query string
	// Scan makes econsole list consoles instead of attaching.
	Scan bool
	// Debug turns on verbose output.
	Debug bool
	// KMsg makes egetty redirect the kernel console to its pty.
	KMsg bool
	// Command is the command line egetty runs.
	Command string
}

// Default returns a Config with the default interface.
func Default() Config {
	return Config{Interface: DefaultInterface}
}

func (c Config) String() string {
	d := "broadcast"
	if c.Dest != nil {
		d = c.Dest.String()
	}
	return fmt.Sprintf("interface %s console %d dest %s", c.Interface, c.Console, d)
}

// ParseArgs classifies positional arguments into c.
func (c *Config) ParseArgs(args []string) error {
	for _, a := range args {
		switch {
		case a == "scan":
			c.Scan = true
		case a == "debug":
			c.Debug = true
		case a == "console":
			c.KMsg = true
		case len(a) > 0 && len(a) < 3 && a[0] >= '0' && a[0] <= '9':
			n, err := strconv.ParseUint(a, 10, 8)
			if err != nil {
				return fmt.Errorf("console id %q: %v: %w", a, err, ErrConfig)
			}
			c.Console = uint8(n)
		case strings.HasPrefix(a, "dnssd:"):
			c.Query = a
		case strings.Contains(a, ":"):
			m, err := ParseMAC(a)
			if err != nil {
				return err
			}
			c.Dest = m
		case len(a) == 0:
			return fmt.Errorf("empty argument: %w", ErrConfig)
		default:
			c.Interface = a
		}
	}
	return nil
}

// ParseMAC parses an Ethernet hardware address. Besides the forms
// net.ParseMAC takes, octets may be written without a leading zero,
// e.g. 2:0:0:0:0:1.
func ParseMAC(s string) (net.HardwareAddr, error) {
	if m, err := net.ParseMAC(s); err == nil {
		if len(m) != 6 {
			return nil, fmt.Errorf("hardware address %q: not Ethernet: %w", s, ErrConfig)
		}
		return m, nil
	}
	f := strings.Split(s, ":")
	if len(f) != 6 {
		return nil, fmt.Errorf("hardware address %q: want 6 octets, got %d: %w", s, len(f), ErrConfig)
	}
	m := make(net.HardwareAddr, 6)
	for i, o := range f {
		n, err := strconv.ParseUint(o, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("hardware address %q: octet %d: %v: %w", s, i, err, ErrConfig)
		}
		m[i] = byte(n)
	}
	return m, nil
}
