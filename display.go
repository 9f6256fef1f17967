// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Display is a parsed X display string.
type Display struct {
	// Protocol is "unix", "tcp", or empty when not given.
	Protocol string
	Host     string
	Number   int
	Screen   int
	// Socket is set for displays naming a socket path directly.
	Socket string
}

// ParseDisplay parses a display string. If display is empty it is taken
// from os.Getenv("DISPLAY").
//
// Examples:
//	":1"                 -> unix socket /tmp/.X11-unix/X1
//	"/tmp/launch-123/:0" -> unix socket /tmp/launch-123/:0
//	"hostname:2.1"       -> tcp hostname:6002, screen 1
//	"tcp/hostname:1.0"   -> tcp hostname:6001
func ParseDisplay(display string) (Display, error) {
	var d Display
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	if display == "" {
		return d, errors.Wrap(ErrDisplayParse, "empty display and $DISPLAY not set")
	}

	colon := strings.LastIndex(display, ":")
	if colon < 0 {
		return d, errors.Wrapf(ErrDisplayParse, "%q has no display number", display)
	}
	rest := display[:colon]
	numbers := display[colon+1:]

	if strings.HasPrefix(display, "/") {
		d.Protocol = "unix"
	} else if slash := strings.Index(rest, "/"); slash >= 0 {
		d.Protocol = rest[:slash]
		rest = rest[slash+1:]
		if d.Protocol != "unix" && d.Protocol != "tcp" {
			return d, errors.Wrapf(ErrDisplayParse, "%q: unknown protocol %q",
				display, d.Protocol)
		}
	}

	num, screen := numbers, ""
	if dot := strings.Index(numbers, "."); dot >= 0 {
		num, screen = numbers[:dot], numbers[dot+1:]
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return d, errors.Wrapf(ErrDisplayParse, "%q: bad display number %q", display, num)
	}
	d.Number = n
	if screen != "" {
		s, err := strconv.Atoi(screen)
		if err != nil || s < 0 {
			return d, errors.Wrapf(ErrDisplayParse, "%q: bad screen number %q",
				display, screen)
		}
		d.Screen = s
	}

	if strings.HasPrefix(display, "/") {
		d.Socket = rest + ":" + num
		return d, nil
	}
	d.Host = strings.TrimSuffix(strings.TrimPrefix(rest, "["), "]")
	return d, nil
}

// NumberString is the display number as Xauthority files spell it.
func (d Display) NumberString() string { return strconv.Itoa(d.Number) }

// Addr returns the network and address to dial.
func (d Display) Addr() (network, address string) {
	switch {
	case d.Socket != "":
		return "unix", d.Socket
	case d.Protocol == "unix" || (d.Protocol == "" && d.Host == ""):
		return "unix", "/tmp/.X11-unix/X" + d.NumberString()
	}
	host := d.Host
	if host == "" {
		host = "localhost"
	}
	return "tcp", net.JoinHostPort(host, strconv.Itoa(6000+d.Number))
}
