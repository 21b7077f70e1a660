// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// egetty serves a login over raw Ethernet.
//
// Synopsis:
//
//	egetty [OPTIONS] [DEV] [CONSOLE] [console] [debug]
//
// DEV is the interface, eth0 by default; CONSOLE is the console id,
// 0 by default. The word console redirects kernel messages to the
// login's terminal, and debug turns on debug prints. The options, if
// given, win over the words.
//
// egetty waits for the interface to show up, brings it up, and then
// runs the login forever, starting a new one each time it exits.
// Connect to it with econsole.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/u-root/egetty/config"
	"github.com/u-root/egetty/session"
)

var (
	debug     = flag.Bool("d", false, "enable debug prints")
	klog      = flag.Bool("klog", false, "Log egetty messages in kernel log, not stdout")
	ifname    = flag.String("i", "", "interface to serve on (default "+config.DefaultInterface+")")
	console   = flag.Int("c", -1, "console id, 0-255")
	kmsg      = flag.Bool("console", false, "redirect kernel console messages to the login's terminal")
	command   = flag.String("cmd", session.DefaultCommand, "command to run for each login")
	wait      = flag.Duration("wait", time.Second, "how often to look for the interface until it shows up")
	respawn   = flag.Duration("respawn", 100*time.Millisecond, "how long to wait before restarting the login")
	runAsInit = flag.Bool("init", false, "run as init (Debug only; normal test is if we are pid 1)")

	// v allows debug printing.
	// Do not call it directly, call verbose instead.
	v = func(string, ...interface{}) {}
)

func verbose(f string, a ...interface{}) {
	v("EGETTY:"+f, a...)
}

var errUsage = errors.New("usage")

// getConfig merges the positional words in args with the flags.
func getConfig(args []string) (config.Config, error) {
	cfg := config.Default()
	cfg.Command = *command
	if err := cfg.ParseArgs(args); err != nil {
		return cfg, err
	}
	if cfg.Scan || cfg.Dest != nil || cfg.Query != "" {
		return cfg, fmt.Errorf("%q: only econsole takes scan or an address: %w", args, errUsage)
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
	cfg.KMsg = cfg.KMsg || *kmsg
	cfg.Debug = cfg.Debug || *debug
	return cfg, nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: egetty [OPTIONS] [DEV] [CONSOLE] [console] [debug]\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	cfg, err := getConfig(flag.Args())
	if err != nil {
		flag.Usage()
		log.Fatal(err)
	}
	commonsetup(cfg)
	pid := os.Getpid()
	*runAsInit = *runAsInit || pid == 1
	verbose("config %v, command %q, kmsg %v, pid %d", cfg, cfg.Command, cfg.KMsg, pid)
	if *runAsInit {
		log.Printf("EGETTY: running as init")
		initsetup()
	}
	if err := serve(cfg); err != nil {
		log.Fatal(err)
	}
}
