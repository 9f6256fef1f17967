// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"github.com/pkg/errors"
)

// Programming errors. These are returned immediately and never leave the
// connection in a different state than before the call.
var (
	// ErrUsage is the root of every misuse of the API: asking a void cookie
	// for a reply, checking an unchecked cookie, sending a malformed request.
	ErrUsage = errors.New("xwire: invalid use")

	// ErrBounds is returned when a decoder tries to read past the end of
	// the message it is decoding.
	ErrBounds = errors.New("xwire: read past end of message")

	// ErrCount is returned when a list decodes to a different number of
	// elements than its declared count.
	ErrCount = errors.New("xwire: list count mismatch")
)

// Connection errors. Once one of these is returned by a blocking call the
// connection is unusable.
var (
	ErrInvalidConn         = errors.New("xwire: connection is not usable")
	ErrDisplayParse        = errors.New("xwire: bad display string")
	ErrSetupFailed         = errors.New("xwire: connection setup failed")
	ErrExtensionNotPresent = errors.New("xwire: extension not present")
	ErrRequestTooLong      = errors.New("xwire: request too long")
)

// ErrNoReply is returned by an unchecked reply cookie whose request failed.
// The protocol error itself is delivered by WaitForEvent.
var ErrNoReply = errors.New("xwire: request failed, error delivered as event")

func usageErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrUsage, format, args...)
}

// connError is what every call returns once the connection broke. It
// matches both ErrInvalidConn and the error that broke the connection.
type connError struct {
	cause error
}

func (e connError) Error() string {
	return ErrInvalidConn.Error() + ": " + e.cause.Error()
}

func (e connError) Unwrap() []error { return []error{ErrInvalidConn, e.cause} }
