// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape is the X client API for the SHAPE extension.
package shape

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/BurntSushi/xwire"
	"github.com/BurntSushi/xwire/xproto"
)

const (
	// ExtName is the name QueryExtension knows the extension by.
	ExtName = "SHAPE"

	MajorVersion = 1
	MinorVersion = 1
)

// Minor opcodes.
const (
	QueryVersionOpcode  = 0
	SelectInputOpcode   = 6
	InputSelectedOpcode = 7
)

// Shape kinds.
const (
	SkBounding = 0
	SkClip     = 1
	SkInput    = 2
)

// Notify is the number of the Notify event relative to the extension's
// first event.
const Notify = 0

// Register adds the extension and its event to reg.
func Register(reg *xwire.Registry) error {
	return reg.Register(xwire.ExtensionDef{
		Name:   ExtName,
		Events: []xwire.EventDecoder{Notify: NotifyEventNew},
	})
}

// NotifyEvent reports a change of a window's shape. Detail in the header is
// the shape kind.
type NotifyEvent struct {
	xwire.Header
	AffectedWindow xproto.Window
	ExtentsX       int16
	ExtentsY       int16
	ExtentsWidth   uint16
	ExtentsHeight  uint16
	ServerTime     xproto.Timestamp
	Shaped         bool
}

// NotifyEventNew decodes a Notify event.
func NotifyEventNew(c *xwire.Cursor) (xwire.Event, error) {
	var v NotifyEvent
	v.Header = xwire.ReadHeader(c)
	v.AffectedWindow = xproto.Window(c.Card32())
	v.ExtentsX = c.Int16()
	v.ExtentsY = c.Int16()
	v.ExtentsWidth = c.Card16()
	v.ExtentsHeight = c.Card16()
	v.ServerTime = xproto.Timestamp(c.Card32())
	v.Shaped = c.Bool()
	c.Skip(11)
	if err := c.Err(); err != nil {
		return nil, errors.Wrap(err, "shape Notify")
	}
	return v, nil
}

// ShapeKind is the shape that changed.
func (v NotifyEvent) ShapeKind() byte { return v.Detail }

// Bytes writes a NotifyEvent to its 32 byte wire form.
func (v NotifyEvent) Bytes() []byte {
	e := xwire.NewEncoder(xwire.MessageSize)
	v.Header.EncodeTo(e)
	e.PutCard32(uint32(v.AffectedWindow))
	e.PutInt16(v.ExtentsX)
	e.PutInt16(v.ExtentsY)
	e.PutCard16(v.ExtentsWidth)
	e.PutCard16(v.ExtentsHeight)
	e.PutCard32(uint32(v.ServerTime))
	e.PutBool(v.Shaped)
	e.PutZero(11)
	return e.Bytes()
}

func (v NotifyEvent) String() string {
	return fmt.Sprintf("shape.Notify {Sequence: %d, ShapeKind: %d, AffectedWindow: %d, "+
		"Extents: %dx%d+%d+%d, Shaped: %t}", v.Sequence, v.ShapeKind(), v.AffectedWindow,
		v.ExtentsWidth, v.ExtentsHeight, v.ExtentsX, v.ExtentsY, v.Shaped)
}

// QueryVersionCookie is a cookie used only for QueryVersion requests.
type QueryVersionCookie struct {
	xwire.ReplyCookie[*QueryVersionReply]
}

// QueryVersion sends a checked request.
// If an error occurs, it will be returned with the reply by calling QueryVersionCookie.Reply.
func QueryVersion(c *xwire.Conn) QueryVersionCookie {
	return queryVersion(c, xwire.Default)
}

// QueryVersionChecked sends a checked request.
// If an error occurs, it will be returned with the reply by calling QueryVersionCookie.Reply.
func QueryVersionChecked(c *xwire.Conn) QueryVersionCookie {
	return queryVersion(c, xwire.Checked)
}

// QueryVersionUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func QueryVersionUnchecked(c *xwire.Conn) QueryVersionCookie {
	return queryVersion(c, xwire.Unchecked)
}

func queryVersion(c *xwire.Conn, mode xwire.CheckMode) QueryVersionCookie {
	req := xwire.NewRequest(0, QueryVersionOpcode).Bytes()
	ck := c.SendExtensionRequest(ExtName, req, true, mode)
	return QueryVersionCookie{xwire.NewReplyCookie(ck, queryVersionReply)}
}

// QueryVersionReply represents the data returned from a QueryVersion request.
type QueryVersionReply struct {
	Sequence     uint16
	Length       uint32
	MajorVersion uint16
	MinorVersion uint16
}

// queryVersionReply reads a byte slice into a QueryVersionReply value.
func queryVersionReply(c *xwire.Cursor) (*QueryVersionReply, error) {
	v := new(QueryVersionReply)
	h := xwire.ReadReplyHeader(c)
	v.Sequence = h.Sequence
	v.Length = h.Length
	v.MajorVersion = c.Card16()
	v.MinorVersion = c.Card16()
	return v, errors.Wrap(c.Err(), "shape QueryVersion reply")
}

// SelectInputCookie is a cookie used only for SelectInput requests.
type SelectInputCookie struct {
	xwire.VoidCookie
}

// SelectInput sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func SelectInput(c *xwire.Conn, DestinationWindow xproto.Window, Enable bool) SelectInputCookie {
	return selectInput(c, xwire.Default, DestinationWindow, Enable)
}

// SelectInputChecked sends a checked request.
// If an error occurs, it can be retrieved using SelectInputCookie.Check.
func SelectInputChecked(c *xwire.Conn, DestinationWindow xproto.Window, Enable bool) SelectInputCookie {
	return selectInput(c, xwire.Checked, DestinationWindow, Enable)
}

// SelectInputUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func SelectInputUnchecked(c *xwire.Conn, DestinationWindow xproto.Window, Enable bool) SelectInputCookie {
	return selectInput(c, xwire.Unchecked, DestinationWindow, Enable)
}

func selectInput(c *xwire.Conn, mode xwire.CheckMode, DestinationWindow xproto.Window, Enable bool) SelectInputCookie {
	ck := c.SendExtensionRequest(ExtName, selectInputRequest(DestinationWindow, Enable), false, mode)
	return SelectInputCookie{xwire.VoidCookie{Cookie: ck}}
}

// selectInputRequest writes a SelectInput request to a byte slice.
func selectInputRequest(DestinationWindow xproto.Window, Enable bool) []byte {
	e := xwire.NewRequest(0, SelectInputOpcode)
	e.PutCard32(uint32(DestinationWindow))
	e.PutBool(Enable)
	e.PutZero(3)
	return e.Bytes()
}

// InputSelectedCookie is a cookie used only for InputSelected requests.
type InputSelectedCookie struct {
	xwire.ReplyCookie[*InputSelectedReply]
}

// InputSelected sends a checked request.
// If an error occurs, it will be returned with the reply by calling InputSelectedCookie.Reply.
func InputSelected(c *xwire.Conn, DestinationWindow xproto.Window) InputSelectedCookie {
	return inputSelected(c, xwire.Default, DestinationWindow)
}

// InputSelectedChecked sends a checked request.
// If an error occurs, it will be returned with the reply by calling InputSelectedCookie.Reply.
func InputSelectedChecked(c *xwire.Conn, DestinationWindow xproto.Window) InputSelectedCookie {
	return inputSelected(c, xwire.Checked, DestinationWindow)
}

// InputSelectedUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func InputSelectedUnchecked(c *xwire.Conn, DestinationWindow xproto.Window) InputSelectedCookie {
	return inputSelected(c, xwire.Unchecked, DestinationWindow)
}

func inputSelected(c *xwire.Conn, mode xwire.CheckMode, DestinationWindow xproto.Window) InputSelectedCookie {
	e := xwire.NewRequest(0, InputSelectedOpcode)
	e.PutCard32(uint32(DestinationWindow))
	ck := c.SendExtensionRequest(ExtName, e.Bytes(), true, mode)
	return InputSelectedCookie{xwire.NewReplyCookie(ck, inputSelectedReply)}
}

// InputSelectedReply represents the data returned from a InputSelected request.
type InputSelectedReply struct {
	Sequence uint16
	Length   uint32
	Enabled  bool
}

// inputSelectedReply reads a byte slice into a InputSelectedReply value.
func inputSelectedReply(c *xwire.Cursor) (*InputSelectedReply, error) {
	v := new(InputSelectedReply)
	h := xwire.ReadReplyHeader(c)
	v.Sequence = h.Sequence
	v.Length = h.Length
	v.Enabled = h.Detail != 0
	return v, errors.Wrap(c.Err(), "shape InputSelected reply")
}
