// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"sort"
	"strings"
	"sync"
)

// ExtensionDef is what a protocol package declares about itself. Event and
// error decoders are indexed by their number relative to the extension's
// first event and first error, which the server assigns per connection.
type ExtensionDef struct {
	// Name is the name QueryExtension expects, e.g. "XINERAMA".
	Name   string
	Events []EventDecoder
	Errors []ErrorDecoder
}

// Registry holds every protocol known to the program. Build it once at
// startup, register the core protocol and each extension, and hand it to
// every NewConn. A registry cannot change once a connection has used it.
type Registry struct {
	mu     sync.Mutex
	core   ExtensionDef
	exts   map[string]ExtensionDef
	frozen bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{exts: make(map[string]ExtensionDef)}
}

// SetCore installs the decoders of the core protocol. They always live at
// offset 0.
func (r *Registry) SetCore(def ExtensionDef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return usageErrorf("registry already in use by a connection")
	}
	r.core = def
	return nil
}

// Register adds an extension. Names are case insensitive and unique.
func (r *Registry) Register(def ExtensionDef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return usageErrorf("registry already in use by a connection")
	}
	if def.Name == "" {
		return usageErrorf("extension without a name")
	}
	key := strings.ToUpper(def.Name)
	if _, ok := r.exts[key]; ok {
		return usageErrorf("extension %s registered twice", key)
	}
	def.Name = key
	r.exts[key] = def
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (ExtensionDef, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.exts[strings.ToUpper(name)]
	return def, ok
}

// Core returns the core protocol definition.
func (r *Registry) Core() ExtensionDef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.core
}

// Names returns the registered extension names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.exts))
	for name := range r.exts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Freeze stops any further change to the registry. NewConn freezes the
// registry it is given.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}
