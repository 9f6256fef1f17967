// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind is a single fixed-width wire field.
type Kind byte

// Field kinds, spelled like the characters accepted by ParseFormat.
const (
	PadByte Kind = 'x'
	Card8   Kind = 'B'
	Int8    Kind = 'b'
	Bool    Kind = '?'
	Card16  Kind = 'H'
	Int16   Kind = 'h'
	Card32  Kind = 'I'
	Int32   Kind = 'i'
	Card64  Kind = 'Q'
	Int64   Kind = 'q'
	Float32 Kind = 'f'
	Float64 Kind = 'd'
)

// Size is the number of bytes a field of kind k occupies.
func (k Kind) Size() int {
	switch k {
	case PadByte, Card8, Int8, Bool:
		return 1
	case Card16, Int16:
		return 2
	case Card32, Int32, Float32:
		return 4
	case Card64, Int64, Float64:
		return 8
	}
	return 0
}

func (k Kind) String() string { return string(rune(k)) }

// Format is an ordered sequence of fixed-width fields. Pad bytes are part of
// the format (they count towards Size) but produce no values.
type Format []Kind

// ParseFormat reads a format description such as "xB2xHI": each character
// is a Kind, optionally preceded by a decimal repeat count.
func ParseFormat(s string) (Format, error) {
	var f Format
	count := -1
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= '0' && ch <= '9' {
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			n, err := strconv.Atoi(s[i:j])
			if err != nil {
				return nil, errors.Wrapf(ErrUsage, "format %q: %v", s, err)
			}
			count = n
			i = j - 1
			continue
		}
		k := Kind(ch)
		if k.Size() == 0 {
			return nil, usageErrorf("format %q: unknown field %q", s, ch)
		}
		if count < 0 {
			count = 1
		}
		for ; count > 0; count-- {
			f = append(f, k)
		}
		count = -1
	}
	if count >= 0 {
		return nil, usageErrorf("format %q: trailing repeat count", s)
	}
	return f, nil
}

// MustFormat is like ParseFormat but panics on a malformed description.
// It is meant for package level format variables.
func MustFormat(s string) Format {
	f, err := ParseFormat(s)
	if err != nil {
		panic(err)
	}
	return f
}

// Size is the number of bytes the format covers.
func (f Format) Size() int {
	n := 0
	for _, k := range f {
		n += k.Size()
	}
	return n
}

// Values is the number of values the format produces or consumes.
func (f Format) Values() int {
	n := 0
	for _, k := range f {
		if k != PadByte {
			n++
		}
	}
	return n
}

// Repeat returns the format repeated n times.
func (f Format) Repeat(n int) Format {
	out := make(Format, 0, len(f)*n)
	for i := 0; i < n; i++ {
		out = append(out, f...)
	}
	return out
}

func (f Format) String() string {
	var sb strings.Builder
	for _, k := range f {
		sb.WriteByte(byte(k))
	}
	return sb.String()
}

// decode interprets buf, which must be at least f.Size() bytes long.
func (f Format) decode(buf []byte) []interface{} {
	vals := make([]interface{}, 0, f.Values())
	b := 0
	for _, k := range f {
		switch k {
		case PadByte:
		case Card8:
			vals = append(vals, buf[b])
		case Int8:
			vals = append(vals, int8(buf[b]))
		case Bool:
			vals = append(vals, buf[b] != 0)
		case Card16:
			vals = append(vals, Order.Uint16(buf[b:]))
		case Int16:
			vals = append(vals, int16(Order.Uint16(buf[b:])))
		case Card32:
			vals = append(vals, Order.Uint32(buf[b:]))
		case Int32:
			vals = append(vals, int32(Order.Uint32(buf[b:])))
		case Card64:
			vals = append(vals, Order.Uint64(buf[b:]))
		case Int64:
			vals = append(vals, int64(Order.Uint64(buf[b:])))
		case Float32:
			vals = append(vals, math.Float32frombits(Order.Uint32(buf[b:])))
		case Float64:
			vals = append(vals, math.Float64frombits(Order.Uint64(buf[b:])))
		}
		b += k.Size()
	}
	return vals
}

// encode appends the values to dst according to the format.
func (f Format) encode(dst []byte, vals []interface{}) ([]byte, error) {
	if len(vals) != f.Values() {
		return dst, usageErrorf("format %s takes %d values, got %d",
			f, f.Values(), len(vals))
	}
	var scratch [8]byte
	vi := 0
	for _, k := range f {
		if k == PadByte {
			dst = append(dst, 0)
			continue
		}
		v := vals[vi]
		vi++
		u, err := toBits(k, v)
		if err != nil {
			return dst, err
		}
		switch k.Size() {
		case 1:
			dst = append(dst, byte(u))
		case 2:
			Order.PutUint16(scratch[:], uint16(u))
			dst = append(dst, scratch[:2]...)
		case 4:
			Order.PutUint32(scratch[:], uint32(u))
			dst = append(dst, scratch[:4]...)
		case 8:
			Order.PutUint64(scratch[:], u)
			dst = append(dst, scratch[:8]...)
		}
	}
	return dst, nil
}

// toBits converts a Go value to the raw bits of a field of kind k.
func toBits(k Kind, v interface{}) (uint64, error) {
	switch k {
	case Float32:
		switch x := v.(type) {
		case float32:
			return uint64(math.Float32bits(x)), nil
		case float64:
			return uint64(math.Float32bits(float32(x))), nil
		}
	case Float64:
		switch x := v.(type) {
		case float32:
			return math.Float64bits(float64(x)), nil
		case float64:
			return math.Float64bits(x), nil
		}
	case Bool:
		if x, ok := v.(bool); ok {
			if x {
				return 1, nil
			}
			return 0, nil
		}
	default:
		switch x := v.(type) {
		case uint8:
			return uint64(x), nil
		case int8:
			return uint64(x), nil
		case uint16:
			return uint64(x), nil
		case int16:
			return uint64(x), nil
		case uint32:
			return uint64(x), nil
		case int32:
			return uint64(x), nil
		case uint64:
			return x, nil
		case int64:
			return uint64(x), nil
		case int:
			return uint64(x), nil
		case uint:
			return uint64(x), nil
		case bool:
			if x {
				return 1, nil
			}
			return 0, nil
		}
	}
	return 0, usageErrorf("cannot pack %T as field %s", v, k)
}
