// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xproto is the core X protocol on top of xwire. It covers the
// requests needed to work with atoms, properties and input focus, the most
// common events, and every core error.
//
// Call Register on a registry before the first connection is made:
//
//	reg := xwire.NewRegistry()
//	if err := xproto.Register(reg); err != nil {
//		log.Fatal(err)
//	}
package xproto

import (
	"github.com/BurntSushi/xwire"
)

type (
	Window    uint32
	Atom      uint32
	Colormap  uint32
	Visualid  uint32
	Timestamp uint32
	Keycode   byte
	Button    byte
)

const (
	AtomNone Atom = 0
	// AtomAny matches every property type in GetProperty.
	AtomAny Atom = 0

	WindowNone Window = 0

	TimeCurrentTime Timestamp = 0
)

// Predefined atoms used by the examples.
const (
	AtomPrimary   Atom = 1
	AtomAtom      Atom = 4
	AtomCardinal  Atom = 6
	AtomString    Atom = 31
	AtomWmName    Atom = 39
	AtomWmClass   Atom = 67
	AtomWmCommand Atom = 34
)

const (
	PropModeReplace = 0
	PropModePrepend = 1
	PropModeAppend  = 2
)

const (
	PropertyNewValue = 0
	PropertyDelete   = 1
)

const (
	InputFocusNone        = 0
	InputFocusPointerRoot = 1
	InputFocusParent      = 2
)

const (
	EventMaskNoEvent              = 0
	EventMaskKeyPress             = 1
	EventMaskKeyRelease           = 2
	EventMaskButtonPress          = 4
	EventMaskButtonRelease        = 8
	EventMaskExposure             = 32768
	EventMaskStructureNotify      = 131072
	EventMaskSubstructureNotify   = 524288
	EventMaskSubstructureRedirect = 1048576
	EventMaskPropertyChange       = 4194304
)

const (
	SendEventDestPointerWindow = 0
	SendEventDestItemFocus     = 1
)

// Register installs the core protocol's events and errors in reg.
func Register(reg *xwire.Registry) error {
	return reg.SetCore(xwire.ExtensionDef{
		Events: Events(),
		Errors: Errors(),
	})
}
