// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"net"

	"github.com/u-root/egetty/ds"
	"github.com/u-root/egetty/frame"
	"github.com/u-root/egetty/server"
	"github.com/u-root/egetty/transport"
)

var (
	dsEnabled   = flag.Bool("dnssd", false, "advertise this console using DNSSD")
	dsInstance  = flag.String("dsInstance", "", "DNSSD instance name")
	dsDomain    = flag.String("dsDomain", "local", "DNSSD domain")
	dsService   = flag.String("dsService", ds.DefaultType, "DNSSD Service Type")
	dsInterface = flag.String("dsInterface", "", "DNSSD Interface")
	dsTxtStr    = flag.String("dsTxt", "", "DNSSD key-value pair string parameterizing advertisement")
)

func init() {
	modifiers = append(modifiers, &modifier{f: servemDNS, name: "mDNS"})
}

// servemDNS advertises the console, and who is attached to it.
func servemDNS(s *server.Server, l transport.Link) (func(), error) {
	if !*dsEnabled {
		return func() {}, nil
	}
	ds.Verbose(v)
	txt := ds.ParseKv(*dsTxtStr)
	ds.DefaultTxt(txt, s.Console, l.Name, l.HardwareAddr)
	inst := *dsInstance
	if len(inst) == 0 {
		inst = ds.DefaultInstance(s.Console)
	}

	verbose("Advertising w/dnssd %q", txt)
	if err := ds.Register(inst, *dsDomain, *dsService, *dsInterface, int(frame.EtherType), txt); err != nil {
		return nil, fmt.Errorf("Could not advertise with dns-sd: %w", err)
	}

	prev := s.OnAttach
	s.OnAttach = func(a net.HardwareAddr) {
		ds.Client(a)
		if prev != nil {
			prev(a)
		}
	}
	return ds.Unregister, nil
}
