// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// point is a fixed size test struct.
type point struct {
	X, Y int16
}

func (p *point) DecodeFrom(c *Cursor) error {
	p.X = c.Int16()
	p.Y = c.Int16()
	return c.Err()
}

func (p point) EncodeTo(e *Encoder) {
	e.PutInt16(p.X)
	e.PutInt16(p.Y)
}

func (point) FixedSize() int { return 4 }

// label is a variable size test struct: a length, the bytes, padding.
type label struct {
	Text string
}

func (l *label) DecodeFrom(c *Cursor) error {
	n := c.Card8()
	l.Text = c.String(int(n))
	c.Pad(4)
	return c.Err()
}

func (l label) EncodeTo(e *Encoder) {
	e.PutCard8(byte(len(l.Text)))
	e.PutString(l.Text)
	e.Pad(4)
}

type empty struct{}

func (*empty) DecodeFrom(c *Cursor) error { return nil }

func TestReadScalarsSingleRead(t *testing.T) {
	e := NewEncoder(24)
	PutScalars(e, []uint32{1, 2, 3, 4, 5})
	e.PutCard32(0xdeadbeef)

	c := NewCursor(e.Bytes())
	list, err := ReadScalars[uint32](c, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3, 4, 5}, list)
	assert.Equal(t, 20, c.Offset())
	assert.Equal(t, uint32(0xdeadbeef), c.Card32())
}

func TestReadScalarsEmpty(t *testing.T) {
	c := NewCursor(nil)
	list, err := ReadScalars[uint16](c, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, c.Offset())
}

func TestReadScalarsShort(t *testing.T) {
	c := NewCursor(make([]byte, 6))
	_, err := ReadScalars[uint16](c, 4)
	assert.True(t, errors.Is(err, ErrBounds))
}

func TestReadScalarsSigned(t *testing.T) {
	e := NewEncoder(8)
	PutScalars(e, []int16{-1, 2, -3})
	list, err := ReadScalars[int16](NewCursor(e.Bytes()), 3)
	require.NoError(t, err)
	assert.Equal(t, []int16{-1, 2, -3}, list)
}

func TestReadStructBufsize(t *testing.T) {
	e := NewEncoder(16)
	label{Text: "hello"}.EncodeTo(e)
	e.PutCard8(42)

	c := NewCursor(e.Bytes())
	v, n, err := ReadStruct[label](c)
	require.NoError(t, err)
	assert.Equal(t, "hello", v.Text)
	assert.Equal(t, 8, n)
	assert.Equal(t, 8, c.Offset())
	assert.Equal(t, byte(42), c.Card8())
}

func TestReadStructListCounted(t *testing.T) {
	points := []point{{1, 2}, {-3, 4}, {5, -6}}
	e := NewEncoder(12)
	PutStructList(e, points)

	c := NewCursor(e.Bytes())
	got, err := ReadStructList[point](c, len(points))
	require.NoError(t, err)
	assert.Equal(t, points, got)
	assert.Equal(t, 3*point{}.FixedSize(), c.Offset())
}

func TestReadStructListZero(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3, 4})
	got, err := ReadStructList[point](c, 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 0, c.Offset())
}

func TestReadStructListUnbounded(t *testing.T) {
	labels := []label{{"a"}, {"four"}, {""}, {"seven!!"}}
	e := NewEncoder(32)
	PutStructList(e, labels)

	c := NewCursor(e.Bytes())
	got, err := ReadStructList[label](c, Unbounded)
	require.NoError(t, err)
	assert.Equal(t, labels, got)
	assert.True(t, c.Exhausted())
}

func TestReadStructListUnboundedNeedsSize(t *testing.T) {
	c := NewStreamCursor(nil, -1)
	_, err := ReadStructList[point](c, Unbounded)
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestReadStructListZeroSizedUnbounded(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3, 4})
	_, err := ReadStructList[empty](c, Unbounded)
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestReadStructListShort(t *testing.T) {
	c := NewCursor(make([]byte, 10))
	_, err := ReadStructList[point](c, 3)
	assert.True(t, errors.Is(err, ErrBounds))
}

func TestReadStructListNegative(t *testing.T) {
	_, err := ReadStructList[point](NewCursor(nil), -5)
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestStructRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   []label
	}{
		{"empty list", []label{}},
		{"one", []label{{"x"}}},
		{"aligned", []label{{"abc"}, {"abcdefg"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEncoder(0)
			e.PutCard16(uint16(len(tt.in)))
			e.Pad(4)
			PutStructList(e, tt.in)

			c := NewCursor(e.Bytes())
			n := c.Card16()
			c.Pad(4)
			got, err := ReadStructList[label](c, int(n))
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
			assert.Equal(t, e.Len(), c.Offset())
		})
	}
}
