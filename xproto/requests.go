// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xproto

import (
	"github.com/pkg/errors"

	"github.com/BurntSushi/xwire"
)

// Core request opcodes.
const (
	InternAtomOpcode     = 16
	GetAtomNameOpcode    = 17
	ChangePropertyOpcode = 18
	DeletePropertyOpcode = 19
	GetPropertyOpcode    = 20
	SendEventOpcode      = 25
	GetInputFocusOpcode  = 43
	ListExtensionsOpcode = 99
	NoOperationOpcode    = 127
)

// InternAtomCookie is a cookie used only for InternAtom requests.
type InternAtomCookie struct {
	xwire.ReplyCookie[*InternAtomReply]
}

// InternAtom sends a checked request.
// If an error occurs, it will be returned with the reply by calling InternAtomCookie.Reply.
func InternAtom(c *xwire.Conn, OnlyIfExists bool, Name string) InternAtomCookie {
	return internAtom(c, xwire.Default, OnlyIfExists, Name)
}

// InternAtomChecked is the same as InternAtom; requests with a reply are
// checked by default.
func InternAtomChecked(c *xwire.Conn, OnlyIfExists bool, Name string) InternAtomCookie {
	return internAtom(c, xwire.Checked, OnlyIfExists, Name)
}

// InternAtomUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func InternAtomUnchecked(c *xwire.Conn, OnlyIfExists bool, Name string) InternAtomCookie {
	return internAtom(c, xwire.Unchecked, OnlyIfExists, Name)
}

func internAtom(c *xwire.Conn, mode xwire.CheckMode, OnlyIfExists bool, Name string) InternAtomCookie {
	ck := c.SendRequest(internAtomRequest(OnlyIfExists, Name), true, mode)
	return InternAtomCookie{xwire.NewReplyCookie(ck, internAtomReply)}
}

// InternAtomReply represents the data returned from a InternAtom request.
type InternAtomReply struct {
	Sequence uint16
	Length   uint32
	Atom     Atom
}

// internAtomReply reads a byte slice into a InternAtomReply value.
func internAtomReply(c *xwire.Cursor) (*InternAtomReply, error) {
	v := new(InternAtomReply)
	h := xwire.ReadReplyHeader(c)
	v.Sequence = h.Sequence
	v.Length = h.Length
	v.Atom = Atom(c.Card32())
	return v, errors.Wrap(c.Err(), "InternAtom reply")
}

// Write request to wire for InternAtom
// internAtomRequest writes a InternAtom request to a byte slice.
func internAtomRequest(OnlyIfExists bool, Name string) []byte {
	var detail byte
	if OnlyIfExists {
		detail = 1
	}
	e := xwire.NewRequest(InternAtomOpcode, detail)
	e.PutCard16(uint16(len(Name)))
	e.PutZero(2)
	e.PutString(Name)
	e.Pad(4)
	return e.Bytes()
}

// GetAtomNameCookie is a cookie used only for GetAtomName requests.
type GetAtomNameCookie struct {
	xwire.ReplyCookie[*GetAtomNameReply]
}

// GetAtomName sends a checked request.
// If an error occurs, it will be returned with the reply by calling GetAtomNameCookie.Reply.
func GetAtomName(c *xwire.Conn, Atom Atom) GetAtomNameCookie {
	return getAtomName(c, xwire.Default, Atom)
}

// GetAtomNameChecked sends a checked request.
// If an error occurs, it will be returned with the reply by calling GetAtomNameCookie.Reply.
func GetAtomNameChecked(c *xwire.Conn, Atom Atom) GetAtomNameCookie {
	return getAtomName(c, xwire.Checked, Atom)
}

// GetAtomNameUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func GetAtomNameUnchecked(c *xwire.Conn, Atom Atom) GetAtomNameCookie {
	return getAtomName(c, xwire.Unchecked, Atom)
}

func getAtomName(c *xwire.Conn, mode xwire.CheckMode, Atom Atom) GetAtomNameCookie {
	ck := c.SendRequest(getAtomNameRequest(Atom), true, mode)
	return GetAtomNameCookie{xwire.NewReplyCookie(ck, getAtomNameReply)}
}

// GetAtomNameReply represents the data returned from a GetAtomName request.
type GetAtomNameReply struct {
	Sequence uint16
	Length   uint32
	NameLen  uint16
	Name     string
}

// getAtomNameReply reads a byte slice into a GetAtomNameReply value.
func getAtomNameReply(c *xwire.Cursor) (*GetAtomNameReply, error) {
	v := new(GetAtomNameReply)
	h := xwire.ReadReplyHeader(c)
	v.Sequence = h.Sequence
	v.Length = h.Length
	v.NameLen = c.Card16()
	c.Skip(22)
	v.Name = c.String(int(v.NameLen))
	return v, errors.Wrap(c.Err(), "GetAtomName reply")
}

// getAtomNameRequest writes a GetAtomName request to a byte slice.
func getAtomNameRequest(Atom Atom) []byte {
	e := xwire.NewRequest(GetAtomNameOpcode, 0)
	e.PutCard32(uint32(Atom))
	return e.Bytes()
}

// GetPropertyCookie is a cookie used only for GetProperty requests.
type GetPropertyCookie struct {
	xwire.ReplyCookie[*GetPropertyReply]
}

// GetProperty sends a checked request.
// If an error occurs, it will be returned with the reply by calling GetPropertyCookie.Reply.
func GetProperty(c *xwire.Conn, Delete bool, Window Window, Property Atom, Type Atom, LongOffset uint32, LongLength uint32) GetPropertyCookie {
	return getProperty(c, xwire.Default, Delete, Window, Property, Type, LongOffset, LongLength)
}

// GetPropertyChecked sends a checked request.
// If an error occurs, it will be returned with the reply by calling GetPropertyCookie.Reply.
func GetPropertyChecked(c *xwire.Conn, Delete bool, Window Window, Property Atom, Type Atom, LongOffset uint32, LongLength uint32) GetPropertyCookie {
	return getProperty(c, xwire.Checked, Delete, Window, Property, Type, LongOffset, LongLength)
}

// GetPropertyUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func GetPropertyUnchecked(c *xwire.Conn, Delete bool, Window Window, Property Atom, Type Atom, LongOffset uint32, LongLength uint32) GetPropertyCookie {
	return getProperty(c, xwire.Unchecked, Delete, Window, Property, Type, LongOffset, LongLength)
}

func getProperty(c *xwire.Conn, mode xwire.CheckMode, Delete bool, Window Window, Property Atom, Type Atom, LongOffset uint32, LongLength uint32) GetPropertyCookie {
	ck := c.SendRequest(getPropertyRequest(Delete, Window, Property, Type, LongOffset, LongLength), true, mode)
	return GetPropertyCookie{xwire.NewReplyCookie(ck, getPropertyReply)}
}

// GetPropertyReply represents the data returned from a GetProperty request.
// ValueLen counts units of Format bits; Value holds the raw bytes.
type GetPropertyReply struct {
	Sequence   uint16
	Length     uint32
	Format     byte
	Type       Atom
	BytesAfter uint32
	ValueLen   uint32
	Value      []byte
}

// getPropertyReply reads a byte slice into a GetPropertyReply value.
func getPropertyReply(c *xwire.Cursor) (*GetPropertyReply, error) {
	v := new(GetPropertyReply)
	h := xwire.ReadReplyHeader(c)
	v.Sequence = h.Sequence
	v.Length = h.Length
	v.Format = h.Detail
	v.Type = Atom(c.Card32())
	v.BytesAfter = c.Card32()
	v.ValueLen = c.Card32()
	c.Skip(12)
	v.Value = c.Bytes(int(v.ValueLen) * (int(v.Format) / 8))
	return v, errors.Wrap(c.Err(), "GetProperty reply")
}

// Value32 reads the value of a property of format 32.
func (r *GetPropertyReply) Value32() ([]uint32, error) {
	if r.Format != 32 {
		return nil, errors.Wrapf(xwire.ErrUsage, "property has format %d, not 32", r.Format)
	}
	return xwire.ReadScalars[uint32](xwire.NewCursor(r.Value), int(r.ValueLen))
}

// getPropertyRequest writes a GetProperty request to a byte slice.
func getPropertyRequest(Delete bool, Window Window, Property Atom, Type Atom, LongOffset uint32, LongLength uint32) []byte {
	var detail byte
	if Delete {
		detail = 1
	}
	e := xwire.NewRequest(GetPropertyOpcode, detail)
	e.PutCard32(uint32(Window))
	e.PutCard32(uint32(Property))
	e.PutCard32(uint32(Type))
	e.PutCard32(LongOffset)
	e.PutCard32(LongLength)
	return e.Bytes()
}

// ChangePropertyCookie is a cookie used only for ChangeProperty requests.
type ChangePropertyCookie struct {
	xwire.VoidCookie
}

// ChangeProperty sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
// Data holds DataLen units of Format bits each.
func ChangeProperty(c *xwire.Conn, Mode byte, Window Window, Property Atom, Type Atom, Format byte, DataLen uint32, Data []byte) ChangePropertyCookie {
	return changeProperty(c, xwire.Default, Mode, Window, Property, Type, Format, DataLen, Data)
}

// ChangePropertyChecked sends a checked request.
// If an error occurs, it can be retrieved using ChangePropertyCookie.Check.
func ChangePropertyChecked(c *xwire.Conn, Mode byte, Window Window, Property Atom, Type Atom, Format byte, DataLen uint32, Data []byte) ChangePropertyCookie {
	return changeProperty(c, xwire.Checked, Mode, Window, Property, Type, Format, DataLen, Data)
}

// ChangePropertyUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func ChangePropertyUnchecked(c *xwire.Conn, Mode byte, Window Window, Property Atom, Type Atom, Format byte, DataLen uint32, Data []byte) ChangePropertyCookie {
	return changeProperty(c, xwire.Unchecked, Mode, Window, Property, Type, Format, DataLen, Data)
}

func changeProperty(c *xwire.Conn, mode xwire.CheckMode, Mode byte, Window Window, Property Atom, Type Atom, Format byte, DataLen uint32, Data []byte) ChangePropertyCookie {
	buf, err := changePropertyRequest(Mode, Window, Property, Type, Format, DataLen, Data)
	if err != nil {
		return ChangePropertyCookie{xwire.VoidCookie{Cookie: xwire.ErrorCookie(c, false, mode, err)}}
	}
	ck := c.SendRequest(buf, false, mode)
	return ChangePropertyCookie{xwire.VoidCookie{Cookie: ck}}
}

// changePropertyRequest writes a ChangeProperty request to a byte slice.
func changePropertyRequest(Mode byte, Window Window, Property Atom, Type Atom, Format byte, DataLen uint32, Data []byte) ([]byte, error) {
	switch Format {
	case 8, 16, 32:
	default:
		return nil, errors.Wrapf(xwire.ErrUsage, "ChangeProperty: format %d", Format)
	}
	size := int(DataLen) * int(Format) / 8
	if size > len(Data) {
		return nil, errors.Wrapf(xwire.ErrCount, "ChangeProperty: %d units of %d bits in %d bytes",
			DataLen, Format, len(Data))
	}
	e := xwire.NewRequest(ChangePropertyOpcode, Mode)
	e.PutCard32(uint32(Window))
	e.PutCard32(uint32(Property))
	e.PutCard32(uint32(Type))
	e.PutCard8(Format)
	e.PutZero(3)
	e.PutCard32(DataLen)
	e.PutBytes(Data[:size])
	e.Pad(4)
	return e.Bytes(), nil
}

// DeletePropertyCookie is a cookie used only for DeleteProperty requests.
type DeletePropertyCookie struct {
	xwire.VoidCookie
}

// DeleteProperty sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func DeleteProperty(c *xwire.Conn, Window Window, Property Atom) DeletePropertyCookie {
	return deleteProperty(c, xwire.Default, Window, Property)
}

// DeletePropertyChecked sends a checked request.
// If an error occurs, it can be retrieved using DeletePropertyCookie.Check.
func DeletePropertyChecked(c *xwire.Conn, Window Window, Property Atom) DeletePropertyCookie {
	return deleteProperty(c, xwire.Checked, Window, Property)
}

// DeletePropertyUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func DeletePropertyUnchecked(c *xwire.Conn, Window Window, Property Atom) DeletePropertyCookie {
	return deleteProperty(c, xwire.Unchecked, Window, Property)
}

func deleteProperty(c *xwire.Conn, mode xwire.CheckMode, Window Window, Property Atom) DeletePropertyCookie {
	ck := c.SendRequest(deletePropertyRequest(Window, Property), false, mode)
	return DeletePropertyCookie{xwire.VoidCookie{Cookie: ck}}
}

// deletePropertyRequest writes a DeleteProperty request to a byte slice.
func deletePropertyRequest(Window Window, Property Atom) []byte {
	e := xwire.NewRequest(DeletePropertyOpcode, 0)
	e.PutCard32(uint32(Window))
	e.PutCard32(uint32(Property))
	return e.Bytes()
}

// SendEventCookie is a cookie used only for SendEvent requests.
type SendEventCookie struct {
	xwire.VoidCookie
}

// SendEvent sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
// The event is sent as encoded by its Bytes method.
func SendEvent(c *xwire.Conn, Propagate bool, Destination Window, EventMask uint32, Event xwire.Event) SendEventCookie {
	return sendEvent(c, xwire.Default, Propagate, Destination, EventMask, Event)
}

// SendEventChecked sends a checked request.
// If an error occurs, it can be retrieved using SendEventCookie.Check.
func SendEventChecked(c *xwire.Conn, Propagate bool, Destination Window, EventMask uint32, Event xwire.Event) SendEventCookie {
	return sendEvent(c, xwire.Checked, Propagate, Destination, EventMask, Event)
}

// SendEventUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func SendEventUnchecked(c *xwire.Conn, Propagate bool, Destination Window, EventMask uint32, Event xwire.Event) SendEventCookie {
	return sendEvent(c, xwire.Unchecked, Propagate, Destination, EventMask, Event)
}

func sendEvent(c *xwire.Conn, mode xwire.CheckMode, Propagate bool, Destination Window, EventMask uint32, Event xwire.Event) SendEventCookie {
	buf, err := sendEventRequest(Propagate, Destination, EventMask, Event)
	if err != nil {
		return SendEventCookie{xwire.VoidCookie{Cookie: xwire.ErrorCookie(c, false, mode, err)}}
	}
	ck := c.SendRequest(buf, false, mode)
	return SendEventCookie{xwire.VoidCookie{Cookie: ck}}
}

// sendEventRequest writes a SendEvent request to a byte slice.
func sendEventRequest(Propagate bool, Destination Window, EventMask uint32, Event xwire.Event) ([]byte, error) {
	raw := Event.Bytes()
	if len(raw) != xwire.MessageSize {
		return nil, errors.Wrapf(xwire.ErrUsage, "SendEvent: event of %d bytes", len(raw))
	}
	var detail byte
	if Propagate {
		detail = 1
	}
	e := xwire.NewRequest(SendEventOpcode, detail)
	e.PutCard32(uint32(Destination))
	e.PutCard32(EventMask)
	e.PutBytes(raw)
	return e.Bytes(), nil
}

// GetInputFocusCookie is a cookie used only for GetInputFocus requests.
type GetInputFocusCookie struct {
	xwire.ReplyCookie[*GetInputFocusReply]
}

// GetInputFocus sends a checked request.
// If an error occurs, it will be returned with the reply by calling GetInputFocusCookie.Reply.
func GetInputFocus(c *xwire.Conn) GetInputFocusCookie {
	return getInputFocus(c, xwire.Default)
}

// GetInputFocusChecked sends a checked request.
// If an error occurs, it will be returned with the reply by calling GetInputFocusCookie.Reply.
func GetInputFocusChecked(c *xwire.Conn) GetInputFocusCookie {
	return getInputFocus(c, xwire.Checked)
}

// GetInputFocusUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func GetInputFocusUnchecked(c *xwire.Conn) GetInputFocusCookie {
	return getInputFocus(c, xwire.Unchecked)
}

func getInputFocus(c *xwire.Conn, mode xwire.CheckMode) GetInputFocusCookie {
	ck := c.SendRequest(xwire.NewRequest(GetInputFocusOpcode, 0).Bytes(), true, mode)
	return GetInputFocusCookie{xwire.NewReplyCookie(ck, getInputFocusReply)}
}

// GetInputFocusReply represents the data returned from a GetInputFocus request.
type GetInputFocusReply struct {
	Sequence uint16
	Length   uint32
	RevertTo byte
	Focus    Window
}

// getInputFocusReply reads a byte slice into a GetInputFocusReply value.
func getInputFocusReply(c *xwire.Cursor) (*GetInputFocusReply, error) {
	v := new(GetInputFocusReply)
	h := xwire.ReadReplyHeader(c)
	v.Sequence = h.Sequence
	v.Length = h.Length
	v.RevertTo = h.Detail
	v.Focus = Window(c.Card32())
	return v, errors.Wrap(c.Err(), "GetInputFocus reply")
}

// ListExtensionsCookie is a cookie used only for ListExtensions requests.
type ListExtensionsCookie struct {
	xwire.ReplyCookie[*ListExtensionsReply]
}

// ListExtensions sends a checked request.
// If an error occurs, it will be returned with the reply by calling ListExtensionsCookie.Reply.
func ListExtensions(c *xwire.Conn) ListExtensionsCookie {
	return listExtensions(c, xwire.Default)
}

// ListExtensionsChecked sends a checked request.
// If an error occurs, it will be returned with the reply by calling ListExtensionsCookie.Reply.
func ListExtensionsChecked(c *xwire.Conn) ListExtensionsCookie {
	return listExtensions(c, xwire.Checked)
}

// ListExtensionsUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func ListExtensionsUnchecked(c *xwire.Conn) ListExtensionsCookie {
	return listExtensions(c, xwire.Unchecked)
}

func listExtensions(c *xwire.Conn, mode xwire.CheckMode) ListExtensionsCookie {
	ck := c.SendRequest(xwire.NewRequest(ListExtensionsOpcode, 0).Bytes(), true, mode)
	return ListExtensionsCookie{xwire.NewReplyCookie(ck, listExtensionsReply)}
}

// ListExtensionsReply represents the data returned from a ListExtensions request.
type ListExtensionsReply struct {
	Sequence uint16
	Length   uint32
	NamesLen byte
	Names    []Str
}

// listExtensionsReply reads a byte slice into a ListExtensionsReply value.
func listExtensionsReply(c *xwire.Cursor) (*ListExtensionsReply, error) {
	v := new(ListExtensionsReply)
	h := xwire.ReadReplyHeader(c)
	v.Sequence = h.Sequence
	v.Length = h.Length
	v.NamesLen = h.Detail
	c.Skip(24)
	if err := c.Err(); err != nil {
		return nil, errors.Wrap(err, "ListExtensions reply")
	}
	names, err := xwire.ReadStructList[Str](c, int(v.NamesLen))
	if err != nil {
		return nil, errors.Wrap(err, "ListExtensions reply")
	}
	v.Names = names
	return v, nil
}

// Str is a length-prefixed string, as found in lists of names.
type Str struct {
	NameLen byte
	Name    string
}

func (v *Str) DecodeFrom(c *xwire.Cursor) error {
	v.NameLen = c.Card8()
	v.Name = c.String(int(v.NameLen))
	return c.Err()
}

func (v Str) EncodeTo(e *xwire.Encoder) {
	e.PutCard8(byte(len(v.Name)))
	e.PutString(v.Name)
}

// NoOperationCookie is a cookie used only for NoOperation requests.
type NoOperationCookie struct {
	xwire.VoidCookie
}

// NoOperation sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func NoOperation(c *xwire.Conn) NoOperationCookie {
	return noOperation(c, xwire.Default)
}

// NoOperationChecked sends a checked request.
// If an error occurs, it can be retrieved using NoOperationCookie.Check.
func NoOperationChecked(c *xwire.Conn) NoOperationCookie {
	return noOperation(c, xwire.Checked)
}

// NoOperationUnchecked sends an unchecked request.
// If an error occurs, it can only be retrieved using xwire.Conn.WaitForEvent or xwire.Conn.PollForEvent.
func NoOperationUnchecked(c *xwire.Conn) NoOperationCookie {
	return noOperation(c, xwire.Unchecked)
}

func noOperation(c *xwire.Conn, mode xwire.CheckMode) NoOperationCookie {
	ck := c.SendRequest(xwire.NewRequest(NoOperationOpcode, 0).Bytes(), false, mode)
	return NoOperationCookie{xwire.VoidCookie{Cookie: ck}}
}
