// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"strings"

	"github.com/pkg/errors"
)

const queryExtensionOpcode = 98

func normalizeName(name string) string { return strings.ToUpper(name) }

// QueryExtension asks the server whether it supports the named extension
// and where its opcode, events and errors live.
func (c *Conn) QueryExtension(name string) ReplyCookie[ExtensionInfo] {
	name = normalizeName(name)
	e := NewRequest(queryExtensionOpcode, 0)
	e.PutCard16(uint16(len(name)))
	e.PutZero(2)
	e.PutString(name)
	e.Pad(4)
	ck := c.SendRequest(e.Bytes(), true, Default)
	return NewReplyCookie(ck, func(cur *Cursor) (ExtensionInfo, error) {
		return readQueryExtensionReply(cur, name)
	})
}

func readQueryExtensionReply(c *Cursor, name string) (ExtensionInfo, error) {
	info := ExtensionInfo{Name: name}
	ReadReplyHeader(c)
	info.Present = c.Bool()
	info.MajorOpcode = c.Card8()
	info.FirstEvent = c.Card8()
	info.FirstError = c.Card8()
	return info, errors.Wrap(c.Err(), "QueryExtension reply")
}

// bindExtensions queries every registered extension, then rebuilds the
// dispatch tables with the bases the server assigned. All queries are sent
// before the first reply is read.
func (c *Conn) bindExtensions() error {
	names := c.registry.Names()
	cookies := make([]ReplyCookie[ExtensionInfo], len(names))
	for i, name := range names {
		cookies[i] = c.QueryExtension(name)
	}

	bound := make([]ExtensionInfo, 0, len(names))
	for i, ck := range cookies {
		info, err := ck.Reply()
		if err != nil {
			return errors.Wrapf(err, "querying extension %s", names[i])
		}
		if !info.Present {
			c.log.Warn("extension not present", "extension", info.Name)
		} else {
			c.log.Debug("extension bound", "extension", info.Name,
				"major_opcode", info.MajorOpcode,
				"first_event", info.FirstEvent,
				"first_error", info.FirstError)
		}
		bound = append(bound, info)
	}

	dispatch, err := NewDispatchMap(c.registry, bound)
	if err != nil {
		err = errors.Wrap(err, "binding extensions")
		c.mu.Lock()
		c.fail(err)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, info := range bound {
		c.extensions[info.Name] = info
	}
	c.dispatch = dispatch
	return nil
}

// NewExtensionRequest starts a request of a bound extension: its major
// opcode, the minor opcode, and room for the length.
func (c *Conn) NewExtensionRequest(name string, minor byte) (*Encoder, error) {
	info, err := c.Extension(name)
	if err != nil {
		return nil, err
	}
	return NewRequest(info.MajorOpcode, minor), nil
}

// SendExtensionRequest is SendRequest for a request of the named extension.
// The first byte of buf is replaced by the extension's major opcode; buf
// itself is not modified. If the extension is not present the cookie
// carries ErrExtensionNotPresent.
func (c *Conn) SendExtensionRequest(name string, buf []byte, hasReply bool, mode CheckMode) Cookie {
	info, err := c.Extension(name)
	if err != nil {
		return failedCookie(c, hasReply, mode.checked(hasReply), err)
	}
	req := append([]byte(nil), buf...)
	if len(req) > 0 {
		req[0] = info.MajorOpcode
	}
	return c.SendRequest(req, hasReply, mode)
}
