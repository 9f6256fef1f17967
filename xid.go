// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"github.com/pkg/errors"
)

// xidGenerator hands out resource identifiers from the range the server
// gave us in the setup reply.
type xidGenerator struct {
	base, inc, max, last uint32
}

func newXidGenerator(base, mask uint32) xidGenerator {
	return xidGenerator{base: base, inc: mask & -mask, max: mask}
}

func (g *xidGenerator) next() (uint32, error) {
	// TODO: Use the XC Misc extension to look for released ids.
	if g.inc == 0 || (g.last > 0 && g.last >= g.max-g.inc+1) {
		return 0, errors.New("There are no more available resource identifiers.")
	}
	g.last += g.inc
	return g.last | g.base, nil
}

// NewID generates a new unused ID for use with requests like CreateWindow.
func (c *Conn) NewID() (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return 0, err
	}
	return c.xid.next()
}
