// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

// cookieState is the connection's record of one outstanding request.
//
// There are four kinds of requests:
// Checked requests with replies resolve with a reply or an error.
// Unchecked requests with replies resolve with a reply, or with ErrNoReply
// when the server sent an error (which is queued as an event).
// Checked requests w/o replies resolve when a later reply or error shows
// the server got past them, or with their error.
// Unchecked requests w/o replies are never tracked.
//
// A request that could not be sent at all is unsent; its cookie reports
// why from Reply and Check alike.
type cookieState struct {
	seq      uint64
	checked  bool
	hasReply bool
	unsent   bool

	done  bool
	reply []byte
	err   error
}

// Cookie is the handle of a sent request.
type Cookie struct {
	conn  *Conn
	state *cookieState
}

// Sequence is the full sequence number assigned to the request.
func (ck Cookie) Sequence() uint64 {
	if ck.state == nil {
		return 0
	}
	return ck.state.seq
}

// Checked reports whether errors for this request come back through the
// cookie rather than through WaitForEvent.
func (ck Cookie) Checked() bool { return ck.state != nil && ck.state.checked }

// HasReply reports whether the request expects a reply.
func (ck Cookie) HasReply() bool { return ck.state != nil && ck.state.hasReply }

// ReplyBytes blocks until the raw reply for this request has arrived.
// Calling it on a cookie of a request without a reply is a usage error.
func (ck Cookie) ReplyBytes() ([]byte, error) {
	if ck.state == nil {
		return nil, usageErrorf("reply on a zero cookie")
	}
	if ck.state.unsent {
		return nil, ck.state.err
	}
	if !ck.state.hasReply {
		return nil, usageErrorf("reply on cookie %d, whose request has no reply; "+
			"use Check instead", ck.state.seq)
	}
	return ck.conn.waitForReply(ck.state)
}

// Check blocks until the server has processed the request and returns its
// error, if any. Only checked requests without replies can be checked, but
// any request that was never sent reports why.
// Checking twice returns the same result without blocking.
func (ck Cookie) Check() error {
	if ck.state == nil {
		return usageErrorf("check on a zero cookie")
	}
	if ck.state.unsent {
		return ck.state.err
	}
	if ck.state.hasReply {
		return usageErrorf("check on cookie %d, whose request has a reply; "+
			"use Reply instead", ck.state.seq)
	}
	if !ck.state.checked {
		return usageErrorf("check on unchecked cookie %d", ck.state.seq)
	}
	return ck.conn.waitForCheck(ck.state)
}

// ReplyCookie is the cookie of a request with a reply of type T.
type ReplyCookie[T any] struct {
	Cookie
	decode func(c *Cursor) (T, error)
}

// NewReplyCookie attaches a reply decoder to a cookie.
func NewReplyCookie[T any](ck Cookie, decode func(c *Cursor) (T, error)) ReplyCookie[T] {
	return ReplyCookie[T]{Cookie: ck, decode: decode}
}

// Reply blocks until the reply has arrived and decodes it.
func (rc ReplyCookie[T]) Reply() (T, error) {
	var zero T
	buf, err := rc.ReplyBytes()
	if err != nil {
		return zero, err
	}
	c := NewCursor(buf)
	h := ReadReplyHeader(c.Copy())
	if err := c.Limit(h.PayloadMax()); err != nil {
		return zero, err
	}
	return rc.decode(c)
}

// VoidCookie is the cookie of a request without a reply.
type VoidCookie struct {
	Cookie
}

// failedCookie carries an error found before the request was sent.
func failedCookie(c *Conn, hasReply, checked bool, err error) Cookie {
	return Cookie{conn: c, state: &cookieState{
		checked:  checked,
		hasReply: hasReply,
		unsent:   true,
		done:     true,
		err:      err,
	}}
}

// ErrorCookie returns a cookie for a request that was never sent because
// building it failed. Waiting on it returns err.
func ErrorCookie(c *Conn, hasReply bool, mode CheckMode, err error) Cookie {
	return failedCookie(c, hasReply, mode.checked(hasReply), err)
}
