// Copyright 2022-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ds

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/brutella/dnssd"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sys/unix" // TODO: doesn't build on OSX
)

// V allows debug printing.
var (
	v          = func(string, ...interface{}) {}
	cancel     = func() {}
	clientChan = make(chan string, 1)
)

// Query is a simple form dns-sd query.
type Query struct {
	Type   string
	Domain string
	Text   map[string][]string
}

// Console is a resolved egetty.
type Console struct {
	Name         string
	Console      uint8
	Interface    string
	HardwareAddr net.HardwareAddr
	Client       string
}

func (c Console) String() string {
	return fmt.Sprintf("%s: console %d on %s %v", c.Name, c.Console, c.Interface, c.HardwareAddr)
}

const (
	DsDefault   = "dnssd:"
	DefaultType = "_egetty._udp"
	dsTimeout   = 1 * time.Second // query-timeout
	timeFormat  = "15:04:05.000"
	dsUpdate    = 60 * time.Second // server meta-data refresh
)

// client relative code

// setup Verbose
func Verbose(f func(string, ...interface{})) {
	v = f
}

// check that dns-sd response has all required attributes
func required(src map[string]string, req map[string][]string) bool {
	for k := range req {
		if !slices.Contains(req[k], src[k]) {
			return false
		}
	}
	return true
}

// Parse parses a DNS-SD URI to a Query.
func Parse(uri string) (Query, error) {
	result := Query{
		Type:   DefaultType,
		Domain: "local",
	}

	u, err := url.Parse(uri)
	if err != nil {
		return result, fmt.Errorf("Trouble parsing url %s: %w", uri, err)
	}

	if u.Scheme != "dnssd" {
		return result, fmt.Errorf("Not an dns-sd URI")
	}

	// following dns-sd URI conventions from CUPS
	if u.Host != "" {
		result.Domain = u.Host
	}
	if p := strings.Trim(u.Path, "/"); p != "" {
		result.Type = p
	}

	result.Text = u.Query()

	return result, nil
}

// console converts a browse entry to a Console. The entry must have a
// console id and hardware address.
func console(e dnssd.BrowseEntry) (Console, error) {
	c := Console{Name: e.Name, Interface: e.Text["ifname"], Client: e.Text["client"]}
	n, err := strconv.ParseUint(e.Text["console"], 10, 8)
	if err != nil {
		return c, fmt.Errorf("%s: console %q: %w", e.Name, e.Text["console"], err)
	}
	c.Console = uint8(n)
	if c.HardwareAddr, err = net.ParseMAC(e.Text["hwaddr"]); err != nil {
		return c, fmt.Errorf("%s: hwaddr %q: %w", e.Name, e.Text["hwaddr"], err)
	}
	return c, nil
}

// Lookup finds a console matching query.
// uri currently supported dnssd://domain/_service._network/instance?reqkey=reqvalue
// default for domain is local, first path element is _egetty._udp, and instance is wildcard
// can omit to underspecify, e.g. dnssd:?console=3 to pick any machine's console 3
func Lookup(ctx context.Context, query Query) (Console, error) {
	ctx, cancel := context.WithTimeout(ctx, dsTimeout)
	defer cancel()

	service := fmt.Sprintf("%s.%s.", strings.Trim(query.Type, "."), strings.Trim(query.Domain, "."))

	v("Browsing for %s\n", service)

	respCh := make(chan *Console, 1)

	addFn := func(e dnssd.BrowseEntry) {
		v("%s	Add	%s	%s	%s	%s (%s)\n", time.Now().Format(timeFormat), e.IfaceName, e.Domain, e.Type, e.Name, e.IPs)
		v("Checking %v against %v", e.Text, query.Text)
		if !required(e.Text, query.Text) {
			return
		}
		c, err := console(e)
		if err != nil {
			v("%v", err)
			return
		}
		select {
		case respCh <- &c:
		default:
		}
	}

	rmvFn := func(e dnssd.BrowseEntry) {
		v("%s	Rmv	%s	%s	%s	%s\n", time.Now().Format(timeFormat), e.IfaceName, e.Domain, e.Type, e.Name)
	}

	go func() {
		if err := dnssd.LookupType(ctx, service, addFn, rmvFn); err != nil {
			v("LookupType(%s): %v", service, err)
		}
		select {
		case respCh <- nil:
		default:
		}
	}()

	e := <-respCh
	if e == nil {
		return Console{}, fmt.Errorf("dnssd found no suitable console")
	}
	return *e, nil
}

// Server components

// Parse DNS-SD key value string into Map w/sensible default for empty keys
func ParseKv(arg string) map[string]string {
	txt := make(map[string]string)
	if len(arg) == 0 {
		return txt
	}
	ss := strings.Split(arg, ",")
	for _, pair := range ss {
		z := strings.SplitN(pair, "=", 2)
		if len(z) > 1 {
			txt[z[0]] = z[1]
		} else {
			txt[z[0]] = "true"
		}
	}

	return txt
}

func Unregister() {
	v("stopping dns-sd server")
	cancel()
}

func DefaultInstance(console uint8) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "egetty"
	}

	return fmt.Sprintf("%s-egetty%d", hostname, console)
}

func UpdateSysInfo(txtFlag map[string]string) {
	var sysinfo unix.Sysinfo_t
	err := unix.Sysinfo(&sysinfo)

	if err != nil {
		v("Sysinfo call failed %v", err)
		return
	}

	txtFlag["uptime"] = strconv.FormatInt(int64(sysinfo.Uptime), 10)
	txtFlag["load1"] = strconv.FormatUint(uint64(sysinfo.Loads[0]), 10)

	v(" dsUpdateSysInfo %v", txtFlag)
}

// DefaultTxt fills in what every egetty advertises.
func DefaultTxt(txtFlag map[string]string, console uint8, ifname string, hw net.HardwareAddr) {
	txtFlag["console"] = strconv.Itoa(int(console))
	txtFlag["ifname"] = ifname
	txtFlag["hwaddr"] = hw.String()

	if len(txtFlag["arch"]) == 0 {
		txtFlag["arch"] = runtime.GOARCH
	}

	if len(txtFlag["os"]) == 0 {
		txtFlag["os"] = runtime.GOOS
	}
}

// Client records the hardware address of the attached client. It
// never blocks; if an update is pending it is replaced.
func Client(addr net.HardwareAddr) {
	v("client %v", addr)
	for {
		select {
		case clientChan <- addr.String():
			return
		default:
		}
		select {
		case <-clientChan:
		default:
		}
	}
}

// Register advertises an egetty. port is only there because SRV
// records need one; egetty uses the EtherType.
func Register(instanceFlag, domainFlag, serviceFlag, interfaceFlag string, portFlag int, txtFlag map[string]string) error {
	v("starting dns-sd server")

	v("Advertising: %s.%s.%s.", strings.Trim(instanceFlag, "."), strings.Trim(serviceFlag, "."), strings.Trim(domainFlag, "."))

	ctx, ctxCancel := context.WithCancel(context.Background())
	cancel = ctxCancel

	resp, err := dnssd.NewResponder()
	if err != nil {
		return fmt.Errorf("dnssd newreponder fail: %w", err)
	}

	ifaces := []string{}
	if len(interfaceFlag) > 0 {
		ifaces = append(ifaces, interfaceFlag)
	}

	UpdateSysInfo(txtFlag)

	cfg := dnssd.Config{
		Name:   instanceFlag,
		Type:   serviceFlag,
		Domain: domainFlag,
		Port:   portFlag,
		Ifaces: ifaces,
		Text:   maps.Clone(txtFlag),
	}
	srv, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("egetty: advertise: New service fail: %w", err)
	}

	go func() {
		time.Sleep(1 * time.Second)
		handle, err := resp.Add(srv)
		if err != nil {
			v("%v", err)
			return
		}
		v("%s	Got a reply for service %s: Name now registered and active\n", time.Now().Format(timeFormat), handle.Service().ServiceInstanceName())
		t := time.NewTicker(dsUpdate)
		defer t.Stop()
		for {
			select {
			case c := <-clientChan:
				txtFlag["client"] = c
			case <-t.C:
			case <-ctx.Done():
				return
			}
			UpdateSysInfo(txtFlag)
			handle.UpdateText(maps.Clone(txtFlag), resp)
		}
	}()

	go func() {
		if err := resp.Respond(ctx); err != nil {
			v("dns-sd responder: %v", err)
		} else {
			v("egetty dns-sd responder exited")
		}
	}()

	return nil
}
