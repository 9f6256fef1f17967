// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

// Backing supplies the bytes a Cursor reads. The returned slice always starts
// at the beginning of the message and is never shorter than a previous one.
type Backing interface {
	// Extend makes at least n bytes available and returns every byte
	// available so far.
	Extend(n int) ([]byte, error)
}

// fixedBacking is a message that is already entirely in memory.
type fixedBacking []byte

func (b fixedBacking) Extend(n int) ([]byte, error) {
	if n > len(b) {
		return nil, errors.Wrapf(ErrBounds, "need %d bytes, message has %d",
			n, len(b))
	}
	return b, nil
}

// streamBacking pulls bytes from a reader only when a decoder asks for them.
// It owns everything it has read.
type streamBacking struct {
	r   io.Reader
	buf []byte
}

func (s *streamBacking) Extend(n int) ([]byte, error) {
	if n <= len(s.buf) {
		return s.buf, nil
	}
	have := len(s.buf)
	grown := append(s.buf, make([]byte, n-have)...)
	if _, err := io.ReadFull(s.r, grown[have:]); err != nil {
		return nil, errors.Wrap(err, "reading message")
	}
	s.buf = grown
	return s.buf, nil
}

// Cursor is a position-tracked view over one message. Reads never go past
// KnownMax. Offsets only move forward.
//
// The typed readers (Card8, Card32, Bytes...) keep the first error they hit
// and return zero values afterwards; decoders check Err once at the end.
// Unpack and Peek return their error directly as well.
type Cursor struct {
	b   Backing
	off int
	max int
	err error
}

// NewCursor returns a cursor over an in-memory message. KnownMax is len(buf).
func NewCursor(buf []byte) *Cursor {
	return &Cursor{b: fixedBacking(buf), max: len(buf)}
}

// NewStreamCursor returns a cursor that reads from r lazily, never more than
// knownMax bytes. A negative knownMax means the bound is not known yet and
// must be set with Limit before the message can be detached.
func NewStreamCursor(r io.Reader, knownMax int) *Cursor {
	return &Cursor{b: &streamBacking{r: r}, max: knownMax}
}

// Offset is the position of the next read, in bytes from the start of the
// message.
func (c *Cursor) Offset() int { return c.off }

// KnownMax is the size of the message, or -1 if it is not known.
func (c *Cursor) KnownMax() int { return c.max }

// Err returns the first error hit by a read.
func (c *Cursor) Err() error { return c.err }

// Limit sets the size of the message. Replies use this once their length
// field has been read.
func (c *Cursor) Limit(max int) error {
	if max < c.off {
		return c.fail(usageErrorf("limit %d is behind offset %d", max, c.off))
	}
	c.max = max
	return nil
}

// Remaining is the number of bytes left before KnownMax, or -1 if unbounded.
func (c *Cursor) Remaining() int {
	if c.max < 0 {
		return -1
	}
	if c.off > c.max {
		return 0
	}
	return c.max - c.off
}

// Exhausted reports whether the offset reached KnownMax.
func (c *Cursor) Exhausted() bool {
	return c.max >= 0 && c.off >= c.max
}

// Pad moves the offset to the next multiple of align and returns how many
// bytes were skipped. Nothing is read.
func (c *Cursor) Pad(align int) int {
	if align <= 1 {
		return 0
	}
	n := (align - c.off%align) % align
	c.off += n
	return n
}

// Copy returns a cursor over the same bytes with its own offset. Reads on
// the copy do not move c.
func (c *Cursor) Copy() *Cursor {
	cp := *c
	return &cp
}

func (c *Cursor) fail(err error) error {
	if c.err == nil {
		c.err = err
	}
	return c.err
}

// take returns n bytes at the offset. The slice aliases the backing store.
func (c *Cursor) take(n int, advance bool) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 {
		c.fail(usageErrorf("negative read of %d bytes", n))
		return nil
	}
	end := c.off + n
	if c.max >= 0 && end > c.max {
		c.fail(errors.Wrapf(ErrBounds, "read of %d bytes at offset %d, message is %d",
			n, c.off, c.max))
		return nil
	}
	buf, err := c.b.Extend(end)
	if err != nil {
		c.fail(err)
		return nil
	}
	start := c.off
	if advance {
		c.off = end
	}
	return buf[start:end]
}

// Unpack reads the fields described by f and advances past them.
func (c *Cursor) Unpack(f Format) ([]interface{}, error) {
	return c.unpack(f, true)
}

// Peek is Unpack without moving the offset.
func (c *Cursor) Peek(f Format) ([]interface{}, error) {
	return c.unpack(f, false)
}

func (c *Cursor) unpack(f Format, advance bool) ([]interface{}, error) {
	buf := c.take(f.Size(), advance)
	if c.err != nil {
		return nil, c.err
	}
	return f.decode(buf), nil
}

// Skip advances the offset by n bytes, which must exist.
func (c *Cursor) Skip(n int) {
	c.take(n, true)
}

func (c *Cursor) Card8() byte {
	buf := c.take(1, true)
	if buf == nil {
		return 0
	}
	return buf[0]
}

func (c *Cursor) Int8() int8 { return int8(c.Card8()) }

func (c *Cursor) Bool() bool { return c.Card8() != 0 }

func (c *Cursor) Card16() uint16 {
	buf := c.take(2, true)
	if buf == nil {
		return 0
	}
	return Order.Uint16(buf)
}

func (c *Cursor) Int16() int16 { return int16(c.Card16()) }

func (c *Cursor) Card32() uint32 {
	buf := c.take(4, true)
	if buf == nil {
		return 0
	}
	return Order.Uint32(buf)
}

func (c *Cursor) Int32() int32 { return int32(c.Card32()) }

func (c *Cursor) Card64() uint64 {
	buf := c.take(8, true)
	if buf == nil {
		return 0
	}
	return Order.Uint64(buf)
}

func (c *Cursor) Int64() int64 { return int64(c.Card64()) }

func (c *Cursor) Float32() float32 { return math.Float32frombits(c.Card32()) }

func (c *Cursor) Float64() float64 { return math.Float64frombits(c.Card64()) }

// Bytes reads n bytes into a new slice.
func (c *Cursor) Bytes(n int) []byte {
	buf := c.take(n, true)
	if c.err != nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, buf)
	return out
}

// String reads n bytes as a string.
func (c *Cursor) String(n int) string {
	buf := c.take(n, true)
	return string(buf)
}

// Detach reads everything up to KnownMax and hands the message bytes to the
// caller. The cursor must not be used afterwards.
func (c *Cursor) Detach() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.max < 0 {
		return nil, c.fail(usageErrorf("detaching a message of unknown size"))
	}
	buf, err := c.b.Extend(c.max)
	if err != nil {
		return nil, c.fail(err)
	}
	c.b = fixedBacking(nil)
	return buf[:c.max], nil
}
