// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseArgs(t *testing.T) {
	for _, tt := range []struct {
		name string
		args []string
		want Config
	}{
		{name: "none", want: Config{Interface: "eth0"}},
		{name: "device", args: []string{"eth1"}, want: Config{Interface: "eth1"}},
		{name: "console", args: []string{"3"}, want: Config{Interface: "eth0", Console: 3}},
		{name: "two digits", args: []string{"42"}, want: Config{Interface: "eth0", Console: 42}},
		{name: "three digits is a device", args: []string{"123"}, want: Config{Interface: "123"}},
		{name: "keywords", args: []string{"scan", "debug", "console"}, want: Config{Interface: "eth0", Scan: true, Debug: true, KMsg: true}},
		{
			name: "econsole",
			args: []string{"eth2", "7", "52:54:00:12:34:56", "debug"},
			want: Config{Interface: "eth2", Console: 7, Dest: []byte{0x52, 0x54, 0, 0x12, 0x34, 0x56}, Debug: true},
		},
		{name: "short octets", args: []string{"2:0:0:0:0:1"}, want: Config{Interface: "eth0", Dest: []byte{2, 0, 0, 0, 0, 1}}},
		{name: "dnssd", args: []string{"dnssd:?console=3"}, want: Config{Interface: "eth0", Query: "dnssd:?console=3"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			if err := c.ParseArgs(tt.args); err != nil {
				t.Fatalf("ParseArgs(%q): %v != nil", tt.args, err)
			}
			if c.String() != tt.want.String() || c.Query != tt.want.Query ||
				c.Scan != tt.want.Scan || c.Debug != tt.want.Debug || c.KMsg != tt.want.KMsg {
				t.Fatalf("ParseArgs(%q): %+v != %+v", tt.args, c, tt.want)
			}
		})
	}
}

func TestParseArgsBad(t *testing.T) {
	for _, args := range [][]string{
		{"9x"},
		{"1:2:3"},
		{"zz:00:00:00:00:01"},
		{"01:02:03:04:05:06:07:08"},
		{""},
	} {
		c := Default()
		if err := c.ParseArgs(args); !errors.Is(err, ErrConfig) {
			t.Errorf("ParseArgs(%q): %v is not %v", args, err, ErrConfig)
		}
	}
}

func TestParseMAC(t *testing.T) {
	for _, s := range []string{"02:00:00:00:00:01", "2:0:0:0:0:1", "02-00-00-00-00-01"} {
		m, err := ParseMAC(s)
		if err != nil {
			t.Errorf("ParseMAC(%q): %v != nil", s, err)
			continue
		}
		if m.String() != "02:00:00:00:00:01" {
			t.Errorf("ParseMAC(%q): %v != 02:00:00:00:00:01", s, m)
		}
	}
}

const hosts = `
Host lab1
	Interface eth1
	Console 3
	HardwareAddress 52:54:00:12:34:56

Host lab2
	Console 5

Host broken
	Console 300
`

func TestApply(t *testing.T) {
	h, err := DecodeHosts(strings.NewReader(hosts))
	if err != nil {
		t.Fatalf("DecodeHosts: %v != nil", err)
	}
	c := Default()
	ok, err := c.Apply(h, "lab1")
	if err != nil || !ok {
		t.Fatalf("Apply(lab1): (%v, %v) != (true, nil)", ok, err)
	}
	if c.String() != "interface eth1 console 3 dest 52:54:00:12:34:56" {
		t.Fatalf("Apply(lab1): %v", c)
	}

	c = Default()
	if ok, err := c.Apply(h, "lab2"); err != nil || !ok {
		t.Fatalf("Apply(lab2): (%v, %v) != (true, nil)", ok, err)
	}
	if c.String() != "interface eth0 console 5 dest broadcast" {
		t.Fatalf("Apply(lab2): %v", c)
	}

	c = Default()
	if ok, err := c.Apply(h, "nosuchhost"); err != nil || ok {
		t.Fatalf("Apply(nosuchhost): (%v, %v) != (false, nil)", ok, err)
	}

	if _, err := c.Apply(h, "broken"); !errors.Is(err, ErrConfig) {
		t.Fatalf("Apply(broken): %v is not %v", err, ErrConfig)
	}
}

func TestLoadHosts(t *testing.T) {
	d := t.TempDir()
	h, err := LoadHosts(filepath.Join(d, "missing"))
	if err != nil {
		t.Fatalf("LoadHosts(missing): %v != nil", err)
	}
	c := Default()
	if ok, err := c.Apply(h, "lab1"); ok || err != nil {
		t.Fatalf("Apply on empty hosts: (%v, %v) != (false, nil)", ok, err)
	}

	f := filepath.Join(d, "config")
	if err := os.WriteFile(f, []byte(hosts), 0o644); err != nil {
		t.Fatal(err)
	}
	if h, err = LoadHosts(f); err != nil {
		t.Fatalf("LoadHosts(%q): %v != nil", f, err)
	}
	if ok, err := c.Apply(h, "lab1"); !ok || err != nil {
		t.Fatalf("Apply(lab1): (%v, %v) != (true, nil)", ok, err)
	}
}
