// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/u-root/egetty/config"
)

const hosts = `
Host lab1
	Interface eth1
	Console 3
	HardwareAddress 52:54:00:12:34:56

Host lab2
	Console 4
`

func TestGetConfig(t *testing.T) {
	v = t.Logf
	isLink = func(name string) bool { return name == "eth1" || name == "eth9" }
	h, err := config.DecodeHosts(strings.NewReader(hosts))
	if err != nil {
		t.Fatal(err)
	}
	var tests = []struct {
		args    []string
		ifname  string
		console int
		want    string
		scan    bool
	}{
		{args: nil, console: -1, want: "interface eth0 console 0 dest broadcast"},
		{args: []string{"eth9", "2", "2:0:0:0:0:1"}, console: -1, want: "interface eth9 console 2 dest 02:00:00:00:00:01"},
		{args: []string{"lab1"}, console: -1, want: "interface eth1 console 3 dest 52:54:00:12:34:56"},
		{args: []string{"lab2"}, console: -1, want: "interface eth0 console 4 dest broadcast"},
		{args: []string{"lab1"}, ifname: "eth9", console: 5, want: "interface eth9 console 5 dest 52:54:00:12:34:56"},
		{args: []string{"usb0", "scan"}, console: -1, want: "interface usb0 console 0 dest broadcast", scan: true},
	}
	for _, tt := range tests {
		*ifname, *console = tt.ifname, tt.console
		cfg, err := getConfig(tt.args, h)
		if err != nil {
			t.Errorf("getConfig(%q): %v != nil", tt.args, err)
			continue
		}
		if cfg.String() != tt.want || cfg.Scan != tt.scan {
			t.Errorf("getConfig(%q): (%v, scan %v) != (%v, scan %v)", tt.args, cfg, cfg.Scan, tt.want, tt.scan)
		}
	}
}

func TestGetConfigBad(t *testing.T) {
	*ifname = ""
	for _, tt := range []struct {
		args    []string
		console int
		want    error
	}{
		{args: []string{"console"}, console: -1, want: errUsage},
		{args: nil, console: 300, want: errUsage},
		{args: []string{"1:2"}, console: -1, want: config.ErrConfig},
	} {
		*console = tt.console
		if _, err := getConfig(tt.args, &config.Hosts{}); !errors.Is(err, tt.want) {
			t.Errorf("getConfig(%q) with -c %d: %v is not %v", tt.args, tt.console, err, tt.want)
		}
	}
}

func TestResolveNothing(t *testing.T) {
	cfg := config.Default()
	if err := resolve(context.Background(), &cfg); err != nil || cfg.Dest != nil {
		t.Fatalf("resolve without a query: (%v, %v) != (nil, nil)", cfg.Dest, err)
	}
	cfg.Query = "http://example.com"
	if err := resolve(context.Background(), &cfg); err == nil {
		t.Fatalf("resolve(%q): nil != an error", cfg.Query)
	}
}
