// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwiretest

import (
	"github.com/BurntSushi/xwire"
)

// Reply builds a reply. body is everything after the 8 byte reply header;
// it is padded to fill the fixed 32 bytes, and to 4 bytes beyond that.
func Reply(seq uint16, detail byte, body []byte) []byte {
	e := xwire.NewEncoder(xwire.MessageSize + len(body))
	e.PutCard8(xwire.ReplyCode)
	e.PutCard8(detail)
	e.PutCard16(seq)
	e.PutCard32(0)
	e.PutBytes(body)
	e.Pad(4)
	if e.Len() < xwire.MessageSize {
		e.PutZero(xwire.MessageSize - e.Len())
	}
	buf := e.Bytes()
	xwire.Order.PutUint32(buf[4:], uint32((len(buf)-xwire.MessageSize)/4))
	return buf
}

// Error builds a protocol error in the common error layout.
func Error(seq uint16, code byte, bad uint32, major byte, minor uint16) []byte {
	return xwire.GenericError{
		Header:      xwire.Header{ResponseType: xwire.ErrorCode, Detail: code, Sequence: seq},
		Bad:         bad,
		MajorOpcode: major,
		MinorOpcode: minor,
	}.Bytes()
}

// Event builds a 32 byte event. body follows the 4 byte header.
func Event(code, detail byte, seq uint16, body []byte) []byte {
	e := xwire.NewEncoder(xwire.MessageSize)
	e.PutCard8(code)
	e.PutCard8(detail)
	e.PutCard16(seq)
	e.PutBytes(body)
	if e.Len() < xwire.MessageSize {
		e.PutZero(xwire.MessageSize - e.Len())
	}
	return e.Bytes()[:xwire.MessageSize]
}

// Setup describes the setup reply a Server sends.
type Setup struct {
	Vendor               string
	ReleaseNumber        uint32
	ResourceIdBase       uint32
	ResourceIdMask       uint32
	MaximumRequestLength uint16
	PixmapFormats        []xwire.PixmapFormat

	// Roots are the encoded SCREEN structures, one per screen.
	Roots [][]byte
}

// DefaultSetup is a setup reply with one pixmap format and no screens.
func DefaultSetup() Setup {
	return Setup{
		Vendor:               "xwiretest",
		ReleaseNumber:        12101004,
		ResourceIdBase:       0x00400000,
		ResourceIdMask:       0x001fffff,
		MaximumRequestLength: 0xffff,
		PixmapFormats: []xwire.PixmapFormat{
			{Depth: 24, BitsPerPixel: 32, ScanlinePad: 32},
		},
	}
}

// Bytes encodes the setup reply.
func (s Setup) Bytes() []byte {
	e := xwire.NewEncoder(64)
	e.PutCard8(1) // Success
	e.PutZero(1)
	e.PutCard16(11)
	e.PutCard16(0)
	e.PutCard16(0) // length, set below
	e.PutCard32(s.ReleaseNumber)
	e.PutCard32(s.ResourceIdBase)
	e.PutCard32(s.ResourceIdMask)
	e.PutCard32(256) // motion buffer size
	e.PutCard16(uint16(len(s.Vendor)))
	e.PutCard16(s.MaximumRequestLength)
	e.PutCard8(byte(len(s.Roots)))
	e.PutCard8(byte(len(s.PixmapFormats)))
	e.PutCard8(0)  // image byte order
	e.PutCard8(0)  // bitmap bit order
	e.PutCard8(32) // scanline unit
	e.PutCard8(32) // scanline pad
	e.PutCard8(8)
	e.PutCard8(255)
	e.PutZero(4)
	e.PutString(s.Vendor)
	e.Pad(4)
	xwire.PutStructList(e, s.PixmapFormats)
	for _, root := range s.Roots {
		e.PutBytes(root)
	}
	e.Pad(4)
	e.SetCard16(6, uint16((e.Len()-8)/4))
	return e.Bytes()
}
