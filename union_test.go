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

func TestUnionInterpretations(t *testing.T) {
	u, err := PackUnion(MustFormat("5I"), uint32(1), uint32(2), uint32(3), uint32(4), uint32(5))
	require.NoError(t, err)
	assert.Equal(t, 20, u.Size())

	as32, err := u.As(MustFormat("5I"))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{uint32(1), uint32(2), uint32(3), uint32(4), uint32(5)}, as32)

	as16, err := u.As(MustFormat("10H"))
	require.NoError(t, err)
	assert.Len(t, as16, 10)

	as8, err := u.As(MustFormat("20B"))
	require.NoError(t, err)
	assert.Len(t, as8, 20)

	_, err = u.As(MustFormat("6I"))
	assert.True(t, errors.Is(err, ErrBounds))
}

func TestUnionRoundTrip(t *testing.T) {
	u, err := PackUnion(MustFormat("HHI"), uint16(1), uint16(2), uint32(3))
	require.NoError(t, err)

	e := NewEncoder(u.Size())
	u.EncodeTo(e)
	e.PutCard8(99)

	c := NewCursor(e.Bytes())
	got, err := ReadUnion(c, 8)
	require.NoError(t, err)
	assert.Equal(t, u.Bytes(), got.Bytes())
	assert.Equal(t, byte(99), c.Card8())

	fields := got.Cursor()
	assert.Equal(t, uint16(1), fields.Card16())
	assert.Equal(t, uint16(2), fields.Card16())
	assert.Equal(t, uint32(3), fields.Card32())
}
