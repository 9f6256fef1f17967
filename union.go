// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

// Union is a fixed range of bytes with several possible interpretations.
// Go has no unions, so the bytes are kept and read on demand with As.
type Union struct {
	raw []byte
}

// ReadUnion takes size bytes from c.
func ReadUnion(c *Cursor, size int) (Union, error) {
	raw := c.Bytes(size)
	if err := c.Err(); err != nil {
		return Union{}, err
	}
	return Union{raw: raw}, nil
}

// PackUnion builds a union from values laid out with f.
func PackUnion(f Format, values ...interface{}) (Union, error) {
	e := NewEncoder(f.Size())
	if err := e.Pack(f, values...); err != nil {
		return Union{}, err
	}
	return Union{raw: e.Bytes()}, nil
}

// UnionOf wraps raw bytes. The slice is not copied.
func UnionOf(raw []byte) Union { return Union{raw: raw} }

// As interprets the union with f, which must not be larger than the union.
func (u Union) As(f Format) ([]interface{}, error) {
	return NewCursor(u.raw).Peek(f)
}

// Cursor returns a cursor over the union bytes, for reading it field by field.
func (u Union) Cursor() *Cursor { return NewCursor(u.raw) }

func (u Union) Size() int { return len(u.raw) }

func (u Union) Bytes() []byte { return u.raw }

func (u Union) EncodeTo(e *Encoder) { e.PutBytes(u.raw) }
