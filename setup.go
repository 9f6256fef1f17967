// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"github.com/pkg/errors"
)

// Setup status bytes.
const (
	setupFailed       = 0
	setupSuccess      = 1
	setupAuthenticate = 2
)

// PixmapFormat is one entry of the setup reply's pixmap format list.
type PixmapFormat struct {
	Depth        byte
	BitsPerPixel byte
	ScanlinePad  byte
}

func (v *PixmapFormat) DecodeFrom(c *Cursor) error {
	v.Depth = c.Card8()
	v.BitsPerPixel = c.Card8()
	v.ScanlinePad = c.Card8()
	c.Skip(5)
	return c.Err()
}

func (v PixmapFormat) EncodeTo(e *Encoder) {
	e.PutCard8(v.Depth)
	e.PutCard8(v.BitsPerPixel)
	e.PutCard8(v.ScanlinePad)
	e.PutZero(5)
}

func (PixmapFormat) FixedSize() int { return 8 }

// Setup is the protocol-independent part of the server's setup reply.
// Screens are left in Raw, starting at RootsOffset, for the core protocol
// package to decode.
type Setup struct {
	ProtocolMajorVersion     uint16
	ProtocolMinorVersion     uint16
	ReleaseNumber            uint32
	ResourceIdBase           uint32
	ResourceIdMask           uint32
	MotionBufferSize         uint32
	MaximumRequestLength     uint16
	RootsLen                 byte
	ImageByteOrder           byte
	BitmapFormatBitOrder     byte
	BitmapFormatScanlineUnit byte
	BitmapFormatScanlinePad  byte
	MinKeycode               byte
	MaxKeycode               byte
	Vendor                   string
	PixmapFormats            []PixmapFormat

	Raw         []byte
	RootsOffset int
}

// ReadSetup decodes a successful setup reply.
func ReadSetup(raw []byte) (Setup, error) {
	var s Setup
	c := NewCursor(raw)
	if status := c.Card8(); c.Err() == nil && status != setupSuccess {
		return s, errors.Wrapf(ErrSetupFailed, "setup status %d", status)
	}
	c.Skip(1)
	s.ProtocolMajorVersion = c.Card16()
	s.ProtocolMinorVersion = c.Card16()
	length := c.Card16()
	if err := c.Limit(8 + 4*int(length)); err != nil {
		return s, err
	}
	s.ReleaseNumber = c.Card32()
	s.ResourceIdBase = c.Card32()
	s.ResourceIdMask = c.Card32()
	s.MotionBufferSize = c.Card32()
	vendorLen := c.Card16()
	s.MaximumRequestLength = c.Card16()
	s.RootsLen = c.Card8()
	formatsLen := c.Card8()
	s.ImageByteOrder = c.Card8()
	s.BitmapFormatBitOrder = c.Card8()
	s.BitmapFormatScanlineUnit = c.Card8()
	s.BitmapFormatScanlinePad = c.Card8()
	s.MinKeycode = c.Card8()
	s.MaxKeycode = c.Card8()
	c.Skip(4)
	s.Vendor = c.String(int(vendorLen))
	c.Pad(4)
	if err := c.Err(); err != nil {
		return Setup{}, errors.Wrap(err, "setup reply")
	}

	formats, err := ReadStructList[PixmapFormat](c, int(formatsLen))
	if err != nil {
		return Setup{}, errors.Wrap(err, "setup pixmap formats")
	}
	s.PixmapFormats = formats
	s.Raw = raw
	s.RootsOffset = c.Offset()
	return s, nil
}
