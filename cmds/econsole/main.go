// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// econsole attaches to an egetty over raw Ethernet.
//
// Synopsis:
//
//	econsole [OPTIONS] [DEV|HOST] [CONSOLE] [DESTMAC|dnssd:QUERY] [scan|debug]
//
// DEV is the interface, eth0 by default. CONSOLE is the console id, 0
// by default. DESTMAC is the egetty's hardware address; without it,
// econsole broadcasts and whichever egetty serves CONSOLE answers.
// A dnssd: query, e.g. dnssd:?console=3, finds the address with DNS-SD.
// With scan, econsole lists the consoles that answer instead.
//
// If the first word does not name a local interface, it is looked up
// as a Host in ~/.econsole/config, which may set Interface, Console
// and HardwareAddress.
//
// Type Ctrl-] to leave.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"time"

	"github.com/u-root/egetty/client"
	"github.com/u-root/egetty/config"
	"github.com/u-root/egetty/ds"
	"github.com/u-root/egetty/engine"
	"github.com/u-root/egetty/frame"
	"github.com/u-root/egetty/transport"
	"golang.org/x/sys/unix"
)

var (
	debug     = flag.Bool("d", false, "enable debug prints")
	ifname    = flag.String("i", "", "interface to use (default "+config.DefaultInterface+")")
	console   = flag.Int("c", -1, "console id, 0-255")
	scan      = flag.Bool("scan", false, "list consoles instead of attaching to one")
	timeout   = flag.Duration("t", 0, "how long to scan; 0 is until interrupted")
	hostsFile = flag.String("hosts", config.DefaultHostsFile(), "host alias file")
	wait      = flag.Duration("wait", time.Second, "how often to look for the interface until it shows up")

	v = func(string, ...interface{}) {}
)

func verbose(f string, a ...interface{}) {
	v("ECONSOLE:"+f, a...)
}

var errUsage = errors.New("usage")

// isLink is replaced in tests.
var isLink = func(name string) bool {
	_, err := net.InterfaceByName(name)
	return err == nil
}

// getConfig merges the positional words in args, the hosts file and
// the flags.
func getConfig(args []string, hosts *config.Hosts) (config.Config, error) {
	cfg := config.Default()
	if err := cfg.ParseArgs(args); err != nil {
		return cfg, err
	}
	if cfg.KMsg {
		return cfg, fmt.Errorf("%q: only egetty takes console: %w", args, errUsage)
	}
	if cfg.Interface != config.DefaultInterface && !isLink(cfg.Interface) {
		alias := cfg.Interface
		cfg.Interface = config.DefaultInterface
		ok, err := cfg.Apply(hosts, alias)
		if err != nil {
			return cfg, err
		}
		if !ok {
			// Maybe it shows up later.
			cfg.Interface = alias
		}
		verbose("host %q: %v", alias, cfg)
	}
	if *ifname != "" {
		cfg.Interface = *ifname
	}
	if *console >= 0 {
		if *console > 255 {
			return cfg, fmt.Errorf("console %d: not 0-255: %w", *console, errUsage)
		}
		cfg.Console = uint8(*console)
	}
	cfg.Scan = cfg.Scan || *scan
	cfg.Debug = cfg.Debug || *debug
	return cfg, nil
}

// resolve fills in cfg.Dest from a dnssd: query.
func resolve(ctx context.Context, cfg *config.Config) error {
	if cfg.Query == "" {
		return nil
	}
	q, err := ds.Parse(cfg.Query)
	if err != nil {
		return err
	}
	c, err := ds.Lookup(ctx, q)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Query, err)
	}
	verbose("%s: %v", cfg.Query, c)
	cfg.Dest, cfg.Console = c.HardwareAddr, c.Console
	return nil
}

func run(cfg config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer cancel()

	if err := resolve(ctx, &cfg); err != nil {
		return err
	}

	link, err := transport.LinkUp(ctx, cfg.Interface, *wait)
	if err != nil {
		return err
	}
	verbose("interface %v is up", link)

	conn, err := transport.Listen(link, frame.EtherType)
	if err != nil {
		return err
	}
	defer conn.Close()

	c := client.Command(conn, cfg.Console, cfg.Dest)
	c.Scan, c.Timeout = cfg.Scan, *timeout
	if !c.Scan {
		if err := c.SetupInteractive(); err != nil {
			return err
		}
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("econsole: %v", err)
		}
	}()
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: econsole [OPTIONS] [DEV|HOST] [CONSOLE] [DESTMAC|dnssd:QUERY] [scan|debug]\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	hosts, err := config.LoadHosts(*hostsFile)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := getConfig(flag.Args(), hosts)
	if err != nil {
		flag.Usage()
		log.Fatal(err)
	}
	if cfg.Debug {
		log.Printf("Debug mode")
		v = log.Printf
		client.V = log.Printf
		engine.SetVerbose(log.Printf)
		transport.SetVerbose(log.Printf)
		ds.Verbose(log.Printf)
	}
	verbose("config %v", cfg)
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}
