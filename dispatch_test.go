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

// tagEvent remembers which decoder produced it.
type tagEvent struct {
	Header
	tag string
}

func (ev tagEvent) Bytes() []byte { return nil }

func tagDecoder(tag string) EventDecoder {
	return func(c *Cursor) (Event, error) {
		h := ReadHeader(c)
		c.Skip(MessageSize - 4)
		return tagEvent{Header: h, tag: tag}, c.Err()
	}
}

func tagDecoders(tag string, n int) []EventDecoder {
	decs := make([]EventDecoder, n)
	for i := range decs {
		decs[i] = tagDecoder(tag)
	}
	return decs
}

func testRegistry(t *testing.T) *Registry {
	reg := NewRegistry()
	require.NoError(t, reg.SetCore(ExtensionDef{Events: tagDecoders("core", 2)}))
	require.NoError(t, reg.Register(ExtensionDef{Name: "one", Events: tagDecoders("one", 1)}))
	require.NoError(t, reg.Register(ExtensionDef{Name: "two", Events: tagDecoders("two", 1)}))
	require.NoError(t, reg.Register(ExtensionDef{
		Name:   "three",
		Events: tagDecoders("three", 3),
		Errors: []ErrorDecoder{GenericErrorDecoder("BadThree")},
	}))
	return reg
}

func testBindings() []ExtensionInfo {
	return []ExtensionInfo{
		{Name: "ONE", Present: true, MajorOpcode: 128, FirstEvent: 64},
		{Name: "TWO", Present: true, MajorOpcode: 129, FirstEvent: 66},
		{Name: "THREE", Present: true, MajorOpcode: 130, FirstEvent: 130, FirstError: 150},
	}
}

func TestDispatchResolve(t *testing.T) {
	m, err := NewDispatchMap(testRegistry(t), testBindings())
	require.NoError(t, err)

	tests := []struct {
		code  byte
		ext   string
		base  int
		index int
	}{
		{code: 2, ext: CoreName, base: 0, index: 2},
		{code: 64, ext: "ONE", base: 64, index: 0},
		{code: 65, ext: "ONE", base: 64, index: 1},
		{code: 66, ext: "TWO", base: 66, index: 0},
		{code: 130, ext: "THREE", base: 130, index: 0},
		{code: 131, ext: "THREE", base: 130, index: 1},
		{code: 131 | SyntheticBit, ext: "THREE", base: 130, index: 1},
	}
	for _, tt := range tests {
		res, ok := m.ResolveEvent(tt.code)
		require.True(t, ok, "code %d", tt.code)
		assert.Equal(t, Resolution{Extension: tt.ext, Base: tt.base, Index: tt.index}, res,
			"code %d", tt.code)
	}
}

func TestDispatchDecodeEvent(t *testing.T) {
	m, err := NewDispatchMap(testRegistry(t), testBindings())
	require.NoError(t, err)

	raw := make([]byte, MessageSize)
	raw[0] = 132 | SyntheticBit
	ev, res, err := m.DecodeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "THREE", res.Extension)
	assert.Equal(t, 2, res.Index)
	require.IsType(t, tagEvent{}, ev)
	assert.Equal(t, "three", ev.(tagEvent).tag)
	assert.True(t, ev.Envelope().Synthetic())
	assert.Equal(t, byte(132), ev.Envelope().Code())

	// 65 resolves to ONE, which has a single event: no decoder.
	raw[0] = 65
	ev, res, err = m.DecodeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "ONE", res.Extension)
	require.IsType(t, UnknownEvent{}, ev)
	assert.Equal(t, raw, ev.Bytes())
}

func TestDispatchDecodeError(t *testing.T) {
	m, err := NewDispatchMap(testRegistry(t), testBindings())
	require.NoError(t, err)

	raw := GenericError{Header: Header{Detail: 150, Sequence: 9}, Bad: 77}.Bytes()
	xerr, res, err := m.DecodeError(raw)
	require.NoError(t, err)
	assert.Equal(t, "THREE", res.Extension)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, uint32(77), xerr.BadValue())
	assert.Contains(t, xerr.Error(), "BadThree")

	// Core registered no errors.
	raw[1] = 3
	xerr, res, err = m.DecodeError(raw)
	require.NoError(t, err)
	assert.Equal(t, CoreName, res.Extension)
	assert.Contains(t, xerr.Error(), "Error3")
}

func TestDispatchSkipsAbsent(t *testing.T) {
	bound := testBindings()
	bound[0].Present = false
	m, err := NewDispatchMap(testRegistry(t), bound)
	require.NoError(t, err)

	res, ok := m.ResolveEvent(64)
	require.True(t, ok)
	assert.Equal(t, CoreName, res.Extension)
	assert.Equal(t, 64, res.Index)
}

func TestDispatchOverlap(t *testing.T) {
	bound := testBindings()
	bound[1].FirstEvent = 64
	_, err := NewDispatchMap(testRegistry(t), bound)
	assert.Error(t, err)

	bound = testBindings()
	bound[2].FirstEvent = 65
	_, err = NewDispatchMap(testRegistry(t), bound)
	assert.Error(t, err)
}

func TestDispatchUnregistered(t *testing.T) {
	bound := append(testBindings(), ExtensionInfo{Name: "NOPE", Present: true, FirstEvent: 200})
	_, err := NewDispatchMap(testRegistry(t), bound)
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(ExtensionDef{Name: "Shape"}))
	assert.True(t, errors.Is(reg.Register(ExtensionDef{Name: "SHAPE"}), ErrUsage))
	assert.True(t, errors.Is(reg.Register(ExtensionDef{}), ErrUsage))

	def, ok := reg.Lookup("shape")
	require.True(t, ok)
	assert.Equal(t, "SHAPE", def.Name)

	require.NoError(t, reg.Register(ExtensionDef{Name: "RANDR"}))
	assert.Equal(t, []string{"RANDR", "SHAPE"}, reg.Names())

	reg.Freeze()
	assert.True(t, errors.Is(reg.Register(ExtensionDef{Name: "XFIXES"}), ErrUsage))
	assert.True(t, errors.Is(reg.SetCore(ExtensionDef{}), ErrUsage))
}
