// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"math"
)

// Encoder assembles an outgoing message. It is the write side of Cursor:
// every Put has a matching Cursor read of the same size.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty encoder with room for sizeHint bytes.
func NewEncoder(sizeHint int) *Encoder {
	return &Encoder{buf: make([]byte, 0, sizeHint)}
}

// Len is the number of bytes written so far.
func (e *Encoder) Len() int { return len(e.buf) }

// Bytes returns the encoded message. The slice aliases the encoder.
func (e *Encoder) Bytes() []byte { return e.buf }

// Pad writes zero bytes up to the next multiple of align.
func (e *Encoder) Pad(align int) {
	if align <= 1 {
		return
	}
	e.PutZero((align - len(e.buf)%align) % align)
}

// PutZero writes n zero bytes.
func (e *Encoder) PutZero(n int) {
	for i := 0; i < n; i++ {
		e.buf = append(e.buf, 0)
	}
}

func (e *Encoder) PutCard8(v byte) { e.buf = append(e.buf, v) }

func (e *Encoder) PutInt8(v int8) { e.buf = append(e.buf, byte(v)) }

func (e *Encoder) PutBool(v bool) {
	if v {
		e.PutCard8(1)
	} else {
		e.PutCard8(0)
	}
}

func (e *Encoder) PutCard16(v uint16) {
	var b [2]byte
	Order.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) PutInt16(v int16) { e.PutCard16(uint16(v)) }

func (e *Encoder) PutCard32(v uint32) {
	var b [4]byte
	Order.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) PutInt32(v int32) { e.PutCard32(uint32(v)) }

func (e *Encoder) PutCard64(v uint64) {
	var b [8]byte
	Order.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) PutInt64(v int64) { e.PutCard64(uint64(v)) }

func (e *Encoder) PutFloat32(v float32) { e.PutCard32(math.Float32bits(v)) }

func (e *Encoder) PutFloat64(v float64) { e.PutCard64(math.Float64bits(v)) }

func (e *Encoder) PutBytes(b []byte) { e.buf = append(e.buf, b...) }

func (e *Encoder) PutString(s string) { e.buf = append(e.buf, s...) }

// Pack writes values according to f.
func (e *Encoder) Pack(f Format, values ...interface{}) error {
	buf, err := f.encode(e.buf, values)
	if err != nil {
		return err
	}
	e.buf = buf
	return nil
}

// SetCard16 overwrites two bytes at off. Requests use it to fill in their
// length once the body is known.
func (e *Encoder) SetCard16(off int, v uint16) {
	Order.PutUint16(e.buf[off:], v)
}
