// Copyright 2018-2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mount

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// DefaultFSTab is what a login needs: a /dev with ttys, and ptys.
const DefaultFSTab = `
proc /proc proc nodev,noexec,nosuid 0 0
sysfs /sys sysfs nodev,noexec,nosuid 0 0
devtmpfs /dev devtmpfs nosuid,mode=755 0 0
devpts /dev/pts devpts nosuid,noexec,gid=5,mode=620,ptmxmode=666 0 0
`

// mounter is unix.Mount. Tests replace it.
type mounter func(source string, target string, fstype string, flags uintptr, data string) error

// Mount takes a full fstab as a string and does whatever mounts are
// needed. It ignores comment lines, and lines with less than 6 fields.
// Mounts that are already there (EBUSY) are not errors. Callers should
// not die on a returned error: a console with no /proc is better than
// no console.
func Mount(fstab string) error {
	return mount(unix.Mount, fstab)
}

func mount(m mounter, fstab string) error {
	var lineno int
	s := bufio.NewScanner(strings.NewReader(fstab))
	var err error
	for s.Scan() {
		lineno++
		l := s.Text()
		if strings.HasPrefix(strings.TrimSpace(l), "#") {
			continue
		}
		f := strings.Fields(l)
		// The last two fields no longer have any meaning or use.
		if len(f) < 6 {
			continue
		}
		dev, where, fstype, opts := f[0], f[1], f[2], f[3]
		if e := os.MkdirAll(where, 0o755); e != nil {
			err = errors.Join(err, fmt.Errorf("line %d: %w", lineno, e))
			continue
		}
		flags, data := parse(opts)
		if e := m(dev, where, fstype, flags, data); e != nil && !errors.Is(e, unix.EBUSY) {
			err = errors.Join(err, fmt.Errorf("line %d: Mount(%q, %q, %q, %q=>(%#x, %q)): %w", lineno, dev, where, fstype, opts, flags, data, e))
		}
	}
	return err
}

// There are string args that must be converted to uintptr
var convert = map[string]uintptr{
	"bind":        unix.MS_BIND,
	"dirsync":     unix.MS_DIRSYNC,
	"lazytime":    unix.MS_LAZYTIME,
	"noatime":     unix.MS_NOATIME,
	"nodev":       unix.MS_NODEV,
	"nodiratime":  unix.MS_NODIRATIME,
	"noexec":      unix.MS_NOEXEC,
	"nosuid":      unix.MS_NOSUID,
	"private":     unix.MS_PRIVATE,
	"rdonly":      unix.MS_RDONLY,
	"rec":         unix.MS_REC,
	"relatime":    unix.MS_RELATIME,
	"remount":     unix.MS_REMOUNT,
	"ro":          unix.MS_RDONLY,
	"rw":          0,
	"shared":      unix.MS_SHARED,
	"silent":      unix.MS_SILENT,
	"slave":       unix.MS_SLAVE,
	"strictatime": unix.MS_STRICTATIME,
	"sync":        unix.MS_SYNCHRONOUS,
	"unbindable":  unix.MS_UNBINDABLE,
}

// parse splits fstab options into mount flags and filesystem data.
func parse(m string) (uintptr, string) {
	var opts []string
	var flags uintptr
	for _, f := range strings.Split(strings.TrimSpace(m), ",") {
		// defaults is all zero flags.
		if f == "defaults" || f == "" {
			continue
		}
		if v, ok := convert[f]; ok {
			flags |= v
		} else {
			opts = append(opts, f)
		}
	}
	return flags, strings.Join(opts, ",")
}
