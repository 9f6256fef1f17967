// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Unbounded is the count passed to ReadStructList to decode elements until
// the cursor reaches KnownMax.
const Unbounded = -1

// Decodable is a compound wire value that can be read from a cursor.
// DecodeFrom must leave the cursor right after the value.
type Decodable interface {
	DecodeFrom(c *Cursor) error
}

// Encodable is a compound wire value that can be sent.
type Encodable interface {
	EncodeTo(e *Encoder)
}

// Struct is a record that travels in both directions.
type Struct interface {
	Decodable
	Encodable
}

// FixedSizer is implemented by structs whose wire size never changes.
// Containers use it to lay out lists without decoding them.
type FixedSizer interface {
	FixedSize() int
}

// Integer is any scalar that can be bulk decoded in a list.
type Integer interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64
}

// ReadStruct decodes one T on a lookahead copy of c, then advances c by the
// number of bytes the value consumed. That number is returned as well.
func ReadStruct[T any, PT interface {
	*T
	Decodable
}](c *Cursor) (T, int, error) {
	var v T
	look := c.Copy()
	if err := PT(&v).DecodeFrom(look); err != nil {
		var zero T
		return zero, 0, err
	}
	if err := look.Err(); err != nil {
		var zero T
		return zero, 0, err
	}
	n := look.Offset() - c.Offset()
	c.Skip(n)
	if err := c.Err(); err != nil {
		var zero T
		return zero, 0, err
	}
	return v, n, nil
}

// ReadStructList decodes count compound elements one at a time, each on its
// own lookahead. With count == Unbounded it decodes until KnownMax.
func ReadStructList[T any, PT interface {
	*T
	Decodable
}](c *Cursor, count int) ([]T, error) {
	if count == Unbounded {
		if c.KnownMax() < 0 {
			return nil, usageErrorf("unbounded list on a cursor without a known size")
		}
		list := make([]T, 0)
		for !c.Exhausted() {
			v, n, err := ReadStruct[T, PT](c)
			if err != nil {
				return nil, errors.Wrapf(err, "list element %d", len(list))
			}
			if n == 0 {
				return nil, usageErrorf("zero sized element in unbounded list")
			}
			list = append(list, v)
		}
		return list, nil
	}
	if count < 0 {
		return nil, usageErrorf("negative list count %d", count)
	}
	list := make([]T, 0, count)
	for i := 0; i < count; i++ {
		v, _, err := ReadStruct[T, PT](c)
		if err != nil {
			return nil, errors.Wrapf(err, "list element %d of %d", i, count)
		}
		list = append(list, v)
	}
	if len(list) != count {
		return nil, errors.Wrapf(ErrCount, "decoded %d elements, want %d", len(list), count)
	}
	return list, nil
}

// ReadScalars decodes count integers with a single read.
func ReadScalars[T Integer](c *Cursor, count int) ([]T, error) {
	if count < 0 {
		return nil, usageErrorf("negative list count %d", count)
	}
	var zero T
	size := binary.Size(zero)
	raw := c.take(size*count, true)
	if err := c.Err(); err != nil {
		return nil, err
	}
	list := make([]T, count)
	for i := range list {
		b := raw[i*size:]
		switch size {
		case 1:
			list[i] = T(b[0])
		case 2:
			list[i] = T(Order.Uint16(b))
		case 4:
			list[i] = T(Order.Uint32(b))
		case 8:
			list[i] = T(Order.Uint64(b))
		}
	}
	return list, nil
}

// PutScalars writes a list of integers. No padding is added.
func PutScalars[T Integer](e *Encoder, list []T) {
	if len(list) == 0 {
		return
	}
	size := binary.Size(list[0])
	for _, v := range list {
		switch size {
		case 1:
			e.PutCard8(uint8(v))
		case 2:
			e.PutCard16(uint16(v))
		case 4:
			e.PutCard32(uint32(v))
		case 8:
			e.PutCard64(uint64(v))
		}
	}
}

// PutStructList writes every element of list. No padding is added.
func PutStructList[T Encodable](e *Encoder, list []T) {
	for _, v := range list {
		v.EncodeTo(e)
	}
}
