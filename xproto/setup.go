// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xproto

import (
	"github.com/pkg/errors"

	"github.com/BurntSushi/xwire"
)

// SetupInfo is the setup reply with its screens decoded.
type SetupInfo struct {
	xwire.Setup
	Roots []ScreenInfo
}

// ReadSetupInfo decodes the screens the xwire package left undecoded.
func ReadSetupInfo(s xwire.Setup) (*SetupInfo, error) {
	if s.RootsOffset > len(s.Raw) {
		return nil, errors.Wrapf(xwire.ErrBounds, "roots at %d of a %d byte setup",
			s.RootsOffset, len(s.Raw))
	}
	c := xwire.NewCursor(s.Raw[s.RootsOffset:])
	roots, err := xwire.ReadStructList[ScreenInfo](c, int(s.RootsLen))
	if err != nil {
		return nil, errors.Wrap(err, "setup screens")
	}
	return &SetupInfo{Setup: s, Roots: roots}, nil
}

// Setup decodes the setup of an open connection.
func Setup(c *xwire.Conn) (*SetupInfo, error) {
	return ReadSetupInfo(c.Setup())
}

// DefaultScreen returns the screen with the given number, falling back to
// the first screen. It returns nil when there are no screens.
func (s *SetupInfo) DefaultScreen(screen int) *ScreenInfo {
	if len(s.Roots) == 0 {
		return nil
	}
	if screen < 0 || screen >= len(s.Roots) {
		screen = 0
	}
	return &s.Roots[screen]
}

type ScreenInfo struct {
	Root                Window
	DefaultColormap     Colormap
	WhitePixel          uint32
	BlackPixel          uint32
	CurrentInputMasks   uint32
	WidthInPixels       uint16
	HeightInPixels      uint16
	WidthInMillimeters  uint16
	HeightInMillimeters uint16
	MinInstalledMaps    uint16
	MaxInstalledMaps    uint16
	RootVisual          Visualid
	BackingStores       byte
	SaveUnders          bool
	RootDepth           byte
	AllowedDepthsLen    byte
	AllowedDepths       []DepthInfo
}

func (v *ScreenInfo) DecodeFrom(c *xwire.Cursor) error {
	v.Root = Window(c.Card32())
	v.DefaultColormap = Colormap(c.Card32())
	v.WhitePixel = c.Card32()
	v.BlackPixel = c.Card32()
	v.CurrentInputMasks = c.Card32()
	v.WidthInPixels = c.Card16()
	v.HeightInPixels = c.Card16()
	v.WidthInMillimeters = c.Card16()
	v.HeightInMillimeters = c.Card16()
	v.MinInstalledMaps = c.Card16()
	v.MaxInstalledMaps = c.Card16()
	v.RootVisual = Visualid(c.Card32())
	v.BackingStores = c.Card8()
	v.SaveUnders = c.Bool()
	v.RootDepth = c.Card8()
	v.AllowedDepthsLen = c.Card8()
	if err := c.Err(); err != nil {
		return err
	}
	depths, err := xwire.ReadStructList[DepthInfo](c, int(v.AllowedDepthsLen))
	if err != nil {
		return errors.Wrap(err, "allowed depths")
	}
	v.AllowedDepths = depths
	return nil
}

func (v ScreenInfo) EncodeTo(e *xwire.Encoder) {
	e.PutCard32(uint32(v.Root))
	e.PutCard32(uint32(v.DefaultColormap))
	e.PutCard32(v.WhitePixel)
	e.PutCard32(v.BlackPixel)
	e.PutCard32(v.CurrentInputMasks)
	e.PutCard16(v.WidthInPixels)
	e.PutCard16(v.HeightInPixels)
	e.PutCard16(v.WidthInMillimeters)
	e.PutCard16(v.HeightInMillimeters)
	e.PutCard16(v.MinInstalledMaps)
	e.PutCard16(v.MaxInstalledMaps)
	e.PutCard32(uint32(v.RootVisual))
	e.PutCard8(v.BackingStores)
	e.PutBool(v.SaveUnders)
	e.PutCard8(v.RootDepth)
	e.PutCard8(byte(len(v.AllowedDepths)))
	xwire.PutStructList(e, v.AllowedDepths)
}

type DepthInfo struct {
	Depth      byte
	VisualsLen uint16
	Visuals    []VisualInfo
}

func (v *DepthInfo) DecodeFrom(c *xwire.Cursor) error {
	v.Depth = c.Card8()
	c.Skip(1)
	v.VisualsLen = c.Card16()
	c.Skip(4)
	if err := c.Err(); err != nil {
		return err
	}
	visuals, err := xwire.ReadStructList[VisualInfo](c, int(v.VisualsLen))
	if err != nil {
		return errors.Wrapf(err, "visuals of depth %d", v.Depth)
	}
	v.Visuals = visuals
	return nil
}

func (v DepthInfo) EncodeTo(e *xwire.Encoder) {
	e.PutCard8(v.Depth)
	e.PutZero(1)
	e.PutCard16(uint16(len(v.Visuals)))
	e.PutZero(4)
	xwire.PutStructList(e, v.Visuals)
}

const (
	VisualClassStaticGray  = 0
	VisualClassGrayScale   = 1
	VisualClassStaticColor = 2
	VisualClassPseudoColor = 3
	VisualClassTrueColor   = 4
	VisualClassDirectColor = 5
)

type VisualInfo struct {
	VisualId        Visualid
	Class           byte
	BitsPerRgbValue byte
	ColormapEntries uint16
	RedMask         uint32
	GreenMask       uint32
	BlueMask        uint32
}

var visualFormat = xwire.MustFormat("IBBHIII4x")

func (v *VisualInfo) DecodeFrom(c *xwire.Cursor) error {
	vals, err := c.Unpack(visualFormat)
	if err != nil {
		return err
	}
	v.VisualId = Visualid(vals[0].(uint32))
	v.Class = vals[1].(byte)
	v.BitsPerRgbValue = vals[2].(byte)
	v.ColormapEntries = vals[3].(uint16)
	v.RedMask = vals[4].(uint32)
	v.GreenMask = vals[5].(uint32)
	v.BlueMask = vals[6].(uint32)
	return nil
}

func (v VisualInfo) EncodeTo(e *xwire.Encoder) {
	e.PutCard32(uint32(v.VisualId))
	e.PutCard8(v.Class)
	e.PutCard8(v.BitsPerRgbValue)
	e.PutCard16(v.ColormapEntries)
	e.PutCard32(v.RedMask)
	e.PutCard32(v.GreenMask)
	e.PutCard32(v.BlueMask)
	e.PutZero(4)
}

func (VisualInfo) FixedSize() int { return visualFormat.Size() }
