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

func TestFinishRequest(t *testing.T) {
	e := NewRequest(16, 1)
	e.PutCard16(5)
	e.PutZero(2)
	e.PutString("ATOM_")

	buf := e.Bytes()
	req, err := finishRequest(buf, defaultMaxRequestLength)
	require.NoError(t, err)
	assert.Len(t, req, 16)
	assert.Equal(t, byte(16), req[0])
	assert.Equal(t, byte(1), req[1])
	assert.Equal(t, uint16(4), Order.Uint16(req[2:]))
	assert.Equal(t, []byte{0, 0, 0}, req[13:])

	// The caller's buffer is left alone.
	assert.Len(t, buf, 13)
	assert.Equal(t, uint16(0), Order.Uint16(buf[2:]))
}

func TestFinishRequestShort(t *testing.T) {
	_, err := finishRequest([]byte{1, 2}, defaultMaxRequestLength)
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestFinishRequestTooLong(t *testing.T) {
	_, err := finishRequest(make([]byte, 4*5), 4)
	assert.True(t, errors.Is(err, ErrRequestTooLong))

	_, err = finishRequest(make([]byte, 4*4), 4)
	assert.NoError(t, err)
}

func TestCheckMode(t *testing.T) {
	assert.True(t, Default.checked(true))
	assert.False(t, Default.checked(false))
	assert.True(t, Checked.checked(false))
	assert.False(t, Unchecked.checked(true))
	assert.Equal(t, "unchecked", Unchecked.String())
}
