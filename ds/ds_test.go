// Copyright 2022-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ds

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/brutella/dnssd"
)

func TestClient(t *testing.T) {
	v = t.Logf

	q := Query{
		Type:   "_nobody._udp",
		Domain: "local",
	}

	// simple lookup with no server and bad service, it better fail
	if _, err := Lookup(context.Background(), q); err == nil {
		t.Fatal("Lookup of bad service didn't fail")
	}
}

func TestParse(t *testing.T) {
	q, err := Parse(DsDefault)
	if err != nil {
		t.Fatalf("Parse(%q): %v != nil", DsDefault, err)
	}
	if q.Type != DefaultType || q.Domain != "local" || len(q.Text) != 0 {
		t.Fatalf("Parse(%q): %+v", DsDefault, q)
	}

	q, err = Parse("dnssd://example.com/_other._udp?console=3&ifname=eth1")
	if err != nil {
		t.Fatalf("Parse: %v != nil", err)
	}
	if q.Type != "_other._udp" || q.Domain != "example.com" || q.Text["console"][0] != "3" || q.Text["ifname"][0] != "eth1" {
		t.Fatalf("Parse: %+v", q)
	}

	if _, err := Parse("http://example.com"); err == nil {
		t.Fatalf("Parse(http://example.com): nil != an error")
	}
}

func TestRequired(t *testing.T) {
	src := map[string]string{"console": "3", "ifname": "eth0"}
	for _, tt := range []struct {
		req  map[string][]string
		want bool
	}{
		{req: nil, want: true},
		{req: map[string][]string{"console": {"3"}}, want: true},
		{req: map[string][]string{"console": {"1", "3"}}, want: true},
		{req: map[string][]string{"console": {"4"}}, want: false},
		{req: map[string][]string{"console": {"3"}, "ifname": {"eth1"}}, want: false},
	} {
		if got := required(src, tt.req); got != tt.want {
			t.Errorf("required(%v, %v): %v != %v", src, tt.req, got, tt.want)
		}
	}
}

func TestConsole(t *testing.T) {
	e := dnssd.BrowseEntry{
		Name: "box-egetty3",
		Text: map[string]string{"console": "3", "ifname": "eth0", "hwaddr": "02:00:00:00:00:01"},
	}
	c, err := console(e)
	if err != nil {
		t.Fatalf("console(%v): %v != nil", e, err)
	}
	if c.Console != 3 || c.Interface != "eth0" || c.HardwareAddr.String() != "02:00:00:00:00:01" {
		t.Fatalf("console(%v): %v", e, c)
	}

	for _, txt := range []map[string]string{
		{"hwaddr": "02:00:00:00:00:01"},
		{"console": "300", "hwaddr": "02:00:00:00:00:01"},
		{"console": "3"},
	} {
		if _, err := console(dnssd.BrowseEntry{Name: "bad", Text: txt}); err == nil {
			t.Errorf("console(%v): nil != an error", txt)
		}
	}
}

func TestParseKv(t *testing.T) {
	kv := ParseKv("a=b,c")
	if len(kv) != 2 || kv["a"] != "b" || kv["c"] != "true" {
		t.Fatalf("ParseKv(a=b,c): %v", kv)
	}
	if len(ParseKv("")) != 0 {
		t.Fatalf("ParseKv(\"\"): not empty")
	}
}

func TestDefaultTxt(t *testing.T) {
	txt := ParseKv("arch=other")
	DefaultTxt(txt, 3, "eth0", net.HardwareAddr{2, 0, 0, 0, 0, 1})
	if txt["console"] != "3" || txt["ifname"] != "eth0" || txt["hwaddr"] != "02:00:00:00:00:01" || txt["arch"] != "other" || txt["os"] == "" {
		t.Fatalf("DefaultTxt: %v", txt)
	}
}

func TestClientUpdate(t *testing.T) {
	Client(net.HardwareAddr{2, 0, 0, 0, 0, 1})
	Client(net.HardwareAddr{2, 0, 0, 0, 0, 2})
	select {
	case c := <-clientChan:
		if c != "02:00:00:00:00:02" {
			t.Fatalf("pending client: %s != 02:00:00:00:00:02", c)
		}
	default:
		t.Fatalf("no pending client update")
	}
}

func TestDnsSdStart(t *testing.T) {
	if testing.Short() {
		t.Skip("needs multicast")
	}
	v = t.Logf
	txt := make(map[string]string)
	hw := net.HardwareAddr{2, 0, 0, 0, 0, 0x42}
	DefaultTxt(txt, 42, "lo", hw)
	if err := Register("testInstance", "local", DefaultType, "", 0x6811, txt); err != nil {
		t.Skipf("Register: %v", err)
	}
	defer Unregister()
	time.Sleep(5 * time.Second)

	q, err := Parse("dnssd:?console=42")
	if err != nil {
		t.Fatal(err)
	}
	c, err := Lookup(context.Background(), q)
	if err != nil {
		t.Skipf("Lookup: %v; no multicast here?", err)
	}
	if c.Console != 42 || c.HardwareAddr.String() != hw.String() {
		t.Fatalf("Lookup(%v): %v", q, c)
	}
}
