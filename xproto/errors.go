// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xproto

import (
	"github.com/BurntSushi/xwire"
)

// Core error codes.
const (
	BadRequest        = 1
	BadValue          = 2
	BadWindow         = 3
	BadPixmap         = 4
	BadAtom           = 5
	BadCursor         = 6
	BadFont           = 7
	BadMatch          = 8
	BadDrawable       = 9
	BadAccess         = 10
	BadAlloc          = 11
	BadColormap       = 12
	BadGContext       = 13
	BadIDChoice       = 14
	BadName           = 15
	BadLength         = 16
	BadImplementation = 17
)

var errorNames = [...]string{
	BadRequest:        "BadRequest",
	BadValue:          "BadValue",
	BadWindow:         "BadWindow",
	BadPixmap:         "BadPixmap",
	BadAtom:           "BadAtom",
	BadCursor:         "BadCursor",
	BadFont:           "BadFont",
	BadMatch:          "BadMatch",
	BadDrawable:       "BadDrawable",
	BadAccess:         "BadAccess",
	BadAlloc:          "BadAlloc",
	BadColormap:       "BadColormap",
	BadGContext:       "BadGContext",
	BadIDChoice:       "BadIDChoice",
	BadName:           "BadName",
	BadLength:         "BadLength",
	BadImplementation: "BadImplementation",
}

// CoreError is every error of the core protocol. They all share one
// layout; Name tells them apart.
type CoreError struct {
	xwire.GenericError
}

func coreErrorDecoder(c *xwire.Cursor) (xwire.Error, error) {
	h, err := xwire.PeekHeader(c)
	if err != nil {
		return nil, err
	}
	v, err := xwire.ReadGenericError(c, ErrorName(h.Detail))
	if err != nil {
		return nil, err
	}
	return CoreError{v}, nil
}

// Errors returns the core error decoders indexed by error code. Code 0 is
// never sent and has no decoder.
func Errors() []xwire.ErrorDecoder {
	errs := make([]xwire.ErrorDecoder, len(errorNames))
	for code := 1; code < len(errs); code++ {
		errs[code] = coreErrorDecoder
	}
	return errs
}

// ErrorName returns the name of a core error code, or the empty string.
func ErrorName(code byte) string {
	if int(code) < len(errorNames) {
		return errorNames[code]
	}
	return ""
}
