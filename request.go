// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

// CheckMode selects how errors of a request are delivered. Protocol packages
// expose one function per mode (Op, OpChecked, OpUnchecked) so the choice is
// made at compile time.
type CheckMode int

const (
	// Default checks requests that have a reply and leaves the rest
	// unchecked.
	Default CheckMode = iota
	// Checked delivers errors through the cookie, even for void requests.
	Checked
	// Unchecked delivers errors through WaitForEvent, even for requests
	// with a reply.
	Unchecked
)

func (m CheckMode) checked(hasReply bool) bool {
	switch m {
	case Checked:
		return true
	case Unchecked:
		return false
	}
	return hasReply
}

func (m CheckMode) String() string {
	switch m {
	case Checked:
		return "checked"
	case Unchecked:
		return "unchecked"
	}
	return "default"
}

const (
	// MinRequestSize is the size of a request header.
	MinRequestSize = 4

	// defaultMaxRequestLength is the largest request length, in 4 byte
	// units, without BIG-REQUESTS.
	defaultMaxRequestLength = 0xffff
)

// NewRequest starts a request: major opcode, a data or minor opcode byte,
// and room for the length, which SendRequest fills in.
func NewRequest(major, minor byte) *Encoder {
	e := NewEncoder(32)
	e.PutCard8(major)
	e.PutCard8(minor)
	e.PutCard16(0)
	return e
}

// finishRequest pads buf to 4 bytes and writes its length.
func finishRequest(buf []byte, maxLen int) ([]byte, error) {
	if len(buf) < MinRequestSize {
		return nil, usageErrorf("request of %d bytes is shorter than the %d byte header",
			len(buf), MinRequestSize)
	}
	out := make([]byte, pad(len(buf)))
	copy(out, buf)
	units := len(out) / 4
	if units > maxLen {
		return nil, ErrRequestTooLong
	}
	Order.PutUint16(out[2:], uint16(units))
	return out, nil
}
