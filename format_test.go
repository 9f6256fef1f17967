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

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		size   int
		values int
	}{
		{in: "", want: "", size: 0, values: 0},
		{in: "B", want: "B", size: 1, values: 1},
		{in: "xB2xHI", want: "xBxxHI", size: 10, values: 3},
		{in: "4I", want: "IIII", size: 16, values: 4},
		{in: "12x", want: "xxxxxxxxxxxx", size: 12, values: 0},
		{in: "?bhiqQfd", want: "?bhiqQfd", size: 1 + 1 + 2 + 4 + 8 + 8 + 4 + 8, values: 8},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.String())
			assert.Equal(t, tt.size, f.Size())
			assert.Equal(t, tt.values, f.Values())
		})
	}
}

func TestParseFormatErrors(t *testing.T) {
	for _, in := range []string{"Z", "2", "B3"} {
		_, err := ParseFormat(in)
		assert.True(t, errors.Is(err, ErrUsage), "ParseFormat(%q) = %v", in, err)
	}
	assert.Panics(t, func() { MustFormat("xyz") })
}

func TestFormatRepeat(t *testing.T) {
	f := MustFormat("Hx").Repeat(3)
	assert.Equal(t, "HxHxHx", f.String())
	assert.Equal(t, 9, f.Size())
	assert.Empty(t, MustFormat("I").Repeat(0))
}

func TestPackValueCount(t *testing.T) {
	e := NewEncoder(8)
	err := e.Pack(MustFormat("HH"), uint16(1))
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestPackRoundTrip(t *testing.T) {
	f := MustFormat("Bb?xHhIiQqfd")
	in := []interface{}{
		byte(200), int8(-100), true, uint16(65000), int16(-32000),
		uint32(4000000000), int32(-2000000000), uint64(1 << 60), int64(-1 << 60),
		float32(3.25), 6.5,
	}
	e := NewEncoder(f.Size())
	require.NoError(t, e.Pack(f, in...))
	require.Equal(t, f.Size(), e.Len())

	out, err := NewCursor(e.Bytes()).Unpack(f)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
