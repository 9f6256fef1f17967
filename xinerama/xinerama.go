// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xinerama is the X client API for the XINERAMA extension.
package xinerama

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/BurntSushi/xwire"
)

const (
	// ExtName is the name QueryExtension knows the extension by.
	ExtName = "XINERAMA"

	MajorVersion = 1
	MinorVersion = 1
)

// Minor opcodes.
const (
	QueryVersionOpcode = 0
	IsActiveOpcode     = 4
	QueryScreensOpcode = 5
)

// Register adds the extension to reg. It has no events or errors.
func Register(reg *xwire.Registry) error {
	return reg.Register(xwire.ExtensionDef{Name: ExtName})
}

type ScreenInfo struct {
	XOrg   int16
	YOrg   int16
	Width  uint16
	Height uint16
}

var screenInfoFormat = xwire.MustFormat("hhHH")

// DecodeFrom reads a ScreenInfo value.
func (v *ScreenInfo) DecodeFrom(c *xwire.Cursor) error {
	vals, err := c.Unpack(screenInfoFormat)
	if err != nil {
		return err
	}
	v.XOrg = vals[0].(int16)
	v.YOrg = vals[1].(int16)
	v.Width = vals[2].(uint16)
	v.Height = vals[3].(uint16)
	return nil
}

// EncodeTo writes a ScreenInfo value.
func (v ScreenInfo) EncodeTo(e *xwire.Encoder) {
	e.PutInt16(v.XOrg)
	e.PutInt16(v.YOrg)
	e.PutCard16(v.Width)
	e.PutCard16(v.Height)
}

func (ScreenInfo) FixedSize() int { return screenInfoFormat.Size() }

func (v ScreenInfo) String() string {
	return fmt.Sprintf("ScreenInfo {XOrg: %d, YOrg: %d, Width: %d, Height: %d}",
		v.XOrg, v.YOrg, v.Width, v.Height)
}

// QueryVersionCookie is a cookie used only for QueryVersion requests.
type QueryVersionCookie struct {
	xwire.ReplyCookie[*QueryVersionReply]
}

// QueryVersion sends a checked request.
// If an error occurs, it will be returned with the reply by calling QueryVersionCookie.Reply.
func QueryVersion(c *xwire.Conn, Major byte, Minor byte) QueryVersionCookie {
	return queryVersion(c, xwire.Default, Major, Minor)
}

// QueryVersionChecked sends a checked request.
// If an error occurs, it will be returned with the reply by calling QueryVersionCookie.Reply.
func QueryVersionChecked(c *xwire.Conn, Major byte, Minor byte) QueryVersionCookie {
	return queryVersion(c, xwire.Checked, Major, Minor)
}

// QueryVersionUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func QueryVersionUnchecked(c *xwire.Conn, Major byte, Minor byte) QueryVersionCookie {
	return queryVersion(c, xwire.Unchecked, Major, Minor)
}

func queryVersion(c *xwire.Conn, mode xwire.CheckMode, Major byte, Minor byte) QueryVersionCookie {
	ck := c.SendExtensionRequest(ExtName, queryVersionRequest(Major, Minor), true, mode)
	return QueryVersionCookie{xwire.NewReplyCookie(ck, queryVersionReply)}
}

// QueryVersionReply represents the data returned from a QueryVersion request.
type QueryVersionReply struct {
	Sequence uint16
	Length   uint32
	Major    uint16
	Minor    uint16
}

// queryVersionReply reads a byte slice into a QueryVersionReply value.
func queryVersionReply(c *xwire.Cursor) (*QueryVersionReply, error) {
	v := new(QueryVersionReply)
	h := xwire.ReadReplyHeader(c)
	v.Sequence = h.Sequence
	v.Length = h.Length
	v.Major = c.Card16()
	v.Minor = c.Card16()
	return v, errors.Wrap(c.Err(), "QueryVersion reply")
}

// queryVersionRequest writes a QueryVersion request to a byte slice. The
// major opcode is filled in when the request is sent.
func queryVersionRequest(Major byte, Minor byte) []byte {
	e := xwire.NewRequest(0, QueryVersionOpcode)
	e.PutCard8(Major)
	e.PutCard8(Minor)
	e.Pad(4)
	return e.Bytes()
}

// IsActiveCookie is a cookie used only for IsActive requests.
type IsActiveCookie struct {
	xwire.ReplyCookie[*IsActiveReply]
}

// IsActive sends a checked request.
// If an error occurs, it will be returned with the reply by calling IsActiveCookie.Reply.
func IsActive(c *xwire.Conn) IsActiveCookie {
	return isActive(c, xwire.Default)
}

// IsActiveChecked sends a checked request.
// If an error occurs, it will be returned with the reply by calling IsActiveCookie.Reply.
func IsActiveChecked(c *xwire.Conn) IsActiveCookie {
	return isActive(c, xwire.Checked)
}

// IsActiveUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func IsActiveUnchecked(c *xwire.Conn) IsActiveCookie {
	return isActive(c, xwire.Unchecked)
}

func isActive(c *xwire.Conn, mode xwire.CheckMode) IsActiveCookie {
	req := xwire.NewRequest(0, IsActiveOpcode).Bytes()
	ck := c.SendExtensionRequest(ExtName, req, true, mode)
	return IsActiveCookie{xwire.NewReplyCookie(ck, isActiveReply)}
}

// IsActiveReply represents the data returned from a IsActive request.
type IsActiveReply struct {
	Sequence uint16
	Length   uint32
	State    uint32
}

// isActiveReply reads a byte slice into a IsActiveReply value.
func isActiveReply(c *xwire.Cursor) (*IsActiveReply, error) {
	v := new(IsActiveReply)
	h := xwire.ReadReplyHeader(c)
	v.Sequence = h.Sequence
	v.Length = h.Length
	v.State = c.Card32()
	return v, errors.Wrap(c.Err(), "IsActive reply")
}

// QueryScreensCookie is a cookie used only for QueryScreens requests.
type QueryScreensCookie struct {
	xwire.ReplyCookie[*QueryScreensReply]
}

// QueryScreens sends a checked request.
// If an error occurs, it will be returned with the reply by calling QueryScreensCookie.Reply.
func QueryScreens(c *xwire.Conn) QueryScreensCookie {
	return queryScreens(c, xwire.Default)
}

// QueryScreensChecked sends a checked request.
// If an error occurs, it will be returned with the reply by calling QueryScreensCookie.Reply.
func QueryScreensChecked(c *xwire.Conn) QueryScreensCookie {
	return queryScreens(c, xwire.Checked)
}

// QueryScreensUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func QueryScreensUnchecked(c *xwire.Conn) QueryScreensCookie {
	return queryScreens(c, xwire.Unchecked)
}

func queryScreens(c *xwire.Conn, mode xwire.CheckMode) QueryScreensCookie {
	req := xwire.NewRequest(0, QueryScreensOpcode).Bytes()
	ck := c.SendExtensionRequest(ExtName, req, true, mode)
	return QueryScreensCookie{xwire.NewReplyCookie(ck, queryScreensReply)}
}

// QueryScreensReply represents the data returned from a QueryScreens request.
type QueryScreensReply struct {
	Sequence   uint16
	Length     uint32
	Number     uint32
	ScreenInfo []ScreenInfo
}

// queryScreensReply reads a byte slice into a QueryScreensReply value.
func queryScreensReply(c *xwire.Cursor) (*QueryScreensReply, error) {
	v := new(QueryScreensReply)
	h := xwire.ReadReplyHeader(c)
	v.Sequence = h.Sequence
	v.Length = h.Length
	v.Number = c.Card32()
	c.Skip(20)
	if err := c.Err(); err != nil {
		return nil, errors.Wrap(err, "QueryScreens reply")
	}
	screens, err := xwire.ReadStructList[ScreenInfo](c, int(v.Number))
	if err != nil {
		return nil, errors.Wrap(err, "QueryScreens reply")
	}
	v.ScreenInfo = screens
	return v, nil
}
