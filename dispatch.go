// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"sort"

	"github.com/pkg/errors"
)

// ExtensionInfo is what the server told us about one extension.
type ExtensionInfo struct {
	Name        string
	Present     bool
	MajorOpcode byte
	FirstEvent  byte
	FirstError  byte
}

// Resolution says which extension owns a response type, and which of its
// decoders applies.
type Resolution struct {
	Extension string
	Base      int
	Index     int
}

type offsetEntry[D any] struct {
	name     string
	base     int
	decoders []D
}

// offsetTable maps base offsets to decoder tables. Entries are kept sorted
// by decreasing base so the first entry with base <= code is the owner.
type offsetTable[D any] struct {
	entries []offsetEntry[D]
}

func (t *offsetTable[D]) add(name string, base int, decoders []D) error {
	for _, e := range t.entries {
		lo, hi := e.base, e.base+len(e.decoders)
		if base == e.base || (base < hi && base+len(decoders) > lo) {
			return errors.Errorf("%s at %d overlaps %s at %d", name, base, e.name, e.base)
		}
	}
	t.entries = append(t.entries, offsetEntry[D]{name: name, base: base, decoders: decoders})
	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].base > t.entries[j].base
	})
	return nil
}

func (t *offsetTable[D]) resolve(code int) (Resolution, bool) {
	for _, e := range t.entries {
		if e.base <= code {
			return Resolution{Extension: e.name, Base: e.base, Index: code - e.base}, true
		}
	}
	return Resolution{}, false
}

func (t *offsetTable[D]) lookup(code int) (D, Resolution, bool) {
	var zero D
	res, ok := t.resolve(code)
	if !ok {
		return zero, res, false
	}
	for _, e := range t.entries {
		if e.base != res.Base {
			continue
		}
		if res.Index >= len(e.decoders) {
			return zero, res, false
		}
		return e.decoders[res.Index], res, true
	}
	return zero, res, false
}

// CoreName is the Resolution.Extension of the core protocol.
const CoreName = "core"

// DispatchMap routes incoming events and errors to their decoders. The core
// protocol sits at offset 0; each present extension sits at the base the
// server assigned to it.
type DispatchMap struct {
	events offsetTable[EventDecoder]
	errors offsetTable[ErrorDecoder]
}

// NewDispatchMap builds the event and error tables for one connection.
// Extensions that are not present, or that declare no events (errors), get
// no event (error) range.
func NewDispatchMap(reg *Registry, bound []ExtensionInfo) (*DispatchMap, error) {
	m := &DispatchMap{}
	core := reg.Core()
	if err := m.events.add(CoreName, 0, core.Events); err != nil {
		return nil, err
	}
	if err := m.errors.add(CoreName, 0, core.Errors); err != nil {
		return nil, err
	}
	for _, info := range bound {
		if !info.Present {
			continue
		}
		def, ok := reg.Lookup(info.Name)
		if !ok {
			return nil, usageErrorf("extension %s is not registered", info.Name)
		}
		if len(def.Events) > 0 {
			if err := m.events.add(def.Name, int(info.FirstEvent), def.Events); err != nil {
				return nil, errors.Wrap(err, "event ranges")
			}
		}
		if len(def.Errors) > 0 {
			if err := m.errors.add(def.Name, int(info.FirstError), def.Errors); err != nil {
				return nil, errors.Wrap(err, "error ranges")
			}
		}
	}
	return m, nil
}

// ResolveEvent finds the owner of an event response type. The synthetic bit
// is ignored.
func (m *DispatchMap) ResolveEvent(responseType byte) (Resolution, bool) {
	return m.events.resolve(int(responseType &^ SyntheticBit))
}

// ResolveError finds the owner of an error code.
func (m *DispatchMap) ResolveError(code byte) (Resolution, bool) {
	return m.errors.resolve(int(code))
}

// DecodeEvent decodes a raw event. Events nobody claims come back as
// UnknownEvent, with a nil error.
func (m *DispatchMap) DecodeEvent(raw []byte) (Event, Resolution, error) {
	c := NewCursor(raw)
	h, err := PeekHeader(c)
	if err != nil {
		return nil, Resolution{}, err
	}
	dec, res, ok := m.events.lookup(int(h.Code()))
	if !ok || dec == nil {
		ev, err := readUnknownEvent(c)
		return ev, res, err
	}
	ev, err := dec(c)
	if err != nil {
		return nil, res, errors.Wrapf(err, "decoding %s event %d", res.Extension, res.Index)
	}
	return ev, res, nil
}

// DecodeError decodes a raw error. Unknown codes come back as GenericError.
func (m *DispatchMap) DecodeError(raw []byte) (Error, Resolution, error) {
	c := NewCursor(raw)
	h, err := PeekHeader(c)
	if err != nil {
		return nil, Resolution{}, err
	}
	dec, res, ok := m.errors.lookup(int(h.Detail))
	if !ok || dec == nil {
		xerr, err := ReadGenericError(c, "")
		if err != nil {
			return nil, res, err
		}
		return xerr, res, nil
	}
	xerr, err := dec(c)
	if err != nil {
		return nil, res, errors.Wrapf(err, "decoding %s error %d", res.Extension, res.Index)
	}
	return xerr, res, nil
}
