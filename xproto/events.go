// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xproto

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/BurntSushi/xwire"
)

// Core event codes.
const (
	KeyPress       = 2
	KeyRelease     = 3
	ButtonPress    = 4
	ButtonRelease  = 5
	Expose         = 12
	DestroyNotify  = 17
	UnmapNotify    = 18
	MapNotify      = 19
	PropertyNotify = 28
	ClientMessage  = 33
)

// Events returns the core event decoders indexed by event code. Codes
// without a decoder are delivered as xwire.UnknownEvent.
func Events() []xwire.EventDecoder {
	evs := make([]xwire.EventDecoder, ClientMessage+1)
	evs[KeyPress] = KeyPressEventNew
	evs[KeyRelease] = KeyReleaseEventNew
	evs[ButtonPress] = ButtonPressEventNew
	evs[ButtonRelease] = ButtonReleaseEventNew
	evs[Expose] = ExposeEventNew
	evs[DestroyNotify] = DestroyNotifyEventNew
	evs[UnmapNotify] = UnmapNotifyEventNew
	evs[MapNotify] = MapNotifyEventNew
	evs[PropertyNotify] = PropertyNotifyEventNew
	evs[ClientMessage] = ClientMessageEventNew
	return evs
}

// InputEvent is the layout shared by key and button events. Detail in the
// header is the keycode or the button.
type InputEvent struct {
	xwire.Header
	Time       Timestamp
	Root       Window
	Event      Window
	Child      Window
	RootX      int16
	RootY      int16
	EventX     int16
	EventY     int16
	State      uint16
	SameScreen bool
}

func readInputEvent(c *xwire.Cursor) (InputEvent, error) {
	var v InputEvent
	v.Header = xwire.ReadHeader(c)
	v.Time = Timestamp(c.Card32())
	v.Root = Window(c.Card32())
	v.Event = Window(c.Card32())
	v.Child = Window(c.Card32())
	v.RootX = c.Int16()
	v.RootY = c.Int16()
	v.EventX = c.Int16()
	v.EventY = c.Int16()
	v.State = c.Card16()
	v.SameScreen = c.Bool()
	c.Skip(1)
	return v, c.Err()
}

// Bytes writes an InputEvent to its 32 byte wire form.
func (v InputEvent) Bytes() []byte {
	e := xwire.NewEncoder(xwire.MessageSize)
	v.Header.EncodeTo(e)
	e.PutCard32(uint32(v.Time))
	e.PutCard32(uint32(v.Root))
	e.PutCard32(uint32(v.Event))
	e.PutCard32(uint32(v.Child))
	e.PutInt16(v.RootX)
	e.PutInt16(v.RootY)
	e.PutInt16(v.EventX)
	e.PutInt16(v.EventY)
	e.PutCard16(v.State)
	e.PutBool(v.SameScreen)
	e.PutZero(1)
	return e.Bytes()
}

func (v InputEvent) fields() string {
	return fmt.Sprintf("Sequence: %d, Detail: %d, Time: %d, Root: %d, Event: %d, Child: %d, "+
		"RootX: %d, RootY: %d, EventX: %d, EventY: %d, State: %d, SameScreen: %t",
		v.Sequence, v.Detail, v.Time, v.Root, v.Event, v.Child,
		v.RootX, v.RootY, v.EventX, v.EventY, v.State, v.SameScreen)
}

type KeyPressEvent struct{ InputEvent }

// KeyPressEventNew decodes a KeyPress event.
func KeyPressEventNew(c *xwire.Cursor) (xwire.Event, error) {
	v, err := readInputEvent(c)
	return KeyPressEvent{v}, errors.Wrap(err, "KeyPress")
}

// Keycode is the key that was pressed.
func (v KeyPressEvent) Keycode() Keycode { return Keycode(v.Detail) }

func (v KeyPressEvent) String() string { return "KeyPress {" + v.fields() + "}" }

type KeyReleaseEvent struct{ InputEvent }

// KeyReleaseEventNew decodes a KeyRelease event.
func KeyReleaseEventNew(c *xwire.Cursor) (xwire.Event, error) {
	v, err := readInputEvent(c)
	return KeyReleaseEvent{v}, errors.Wrap(err, "KeyRelease")
}

func (v KeyReleaseEvent) Keycode() Keycode { return Keycode(v.Detail) }

func (v KeyReleaseEvent) String() string { return "KeyRelease {" + v.fields() + "}" }

type ButtonPressEvent struct{ InputEvent }

// ButtonPressEventNew decodes a ButtonPress event.
func ButtonPressEventNew(c *xwire.Cursor) (xwire.Event, error) {
	v, err := readInputEvent(c)
	return ButtonPressEvent{v}, errors.Wrap(err, "ButtonPress")
}

func (v ButtonPressEvent) Button() Button { return Button(v.Detail) }

func (v ButtonPressEvent) String() string { return "ButtonPress {" + v.fields() + "}" }

type ButtonReleaseEvent struct{ InputEvent }

// ButtonReleaseEventNew decodes a ButtonRelease event.
func ButtonReleaseEventNew(c *xwire.Cursor) (xwire.Event, error) {
	v, err := readInputEvent(c)
	return ButtonReleaseEvent{v}, errors.Wrap(err, "ButtonRelease")
}

func (v ButtonReleaseEvent) Button() Button { return Button(v.Detail) }

func (v ButtonReleaseEvent) String() string { return "ButtonRelease {" + v.fields() + "}" }

type ExposeEvent struct {
	xwire.Header
	Window Window
	X      uint16
	Y      uint16
	Width  uint16
	Height uint16
	Count  uint16
}

var exposeFormat = xwire.MustFormat("IHHHHH14x")

// ExposeEventNew decodes an Expose event.
func ExposeEventNew(c *xwire.Cursor) (xwire.Event, error) {
	var v ExposeEvent
	v.Header = xwire.ReadHeader(c)
	vals, err := c.Unpack(exposeFormat)
	if err != nil {
		return nil, errors.Wrap(err, "Expose")
	}
	v.Window = Window(vals[0].(uint32))
	v.X = vals[1].(uint16)
	v.Y = vals[2].(uint16)
	v.Width = vals[3].(uint16)
	v.Height = vals[4].(uint16)
	v.Count = vals[5].(uint16)
	return v, nil
}

// Bytes writes an ExposeEvent to its 32 byte wire form.
func (v ExposeEvent) Bytes() []byte {
	e := xwire.NewEncoder(xwire.MessageSize)
	v.Header.EncodeTo(e)
	e.PutCard32(uint32(v.Window))
	e.PutCard16(v.X)
	e.PutCard16(v.Y)
	e.PutCard16(v.Width)
	e.PutCard16(v.Height)
	e.PutCard16(v.Count)
	e.PutZero(14)
	return e.Bytes()
}

func (v ExposeEvent) String() string {
	return fmt.Sprintf("Expose {Sequence: %d, Window: %d, X: %d, Y: %d, Width: %d, Height: %d, Count: %d}",
		v.Sequence, v.Window, v.X, v.Y, v.Width, v.Height, v.Count)
}

// windowNotify is the layout of DestroyNotify, UnmapNotify and MapNotify:
// the window the event was selected on, the window it is about, and for
// the latter two a flag.
type windowNotify struct {
	xwire.Header
	Event  Window
	Window Window
}

func readWindowNotify(c *xwire.Cursor) (windowNotify, bool, error) {
	var v windowNotify
	v.Header = xwire.ReadHeader(c)
	v.Event = Window(c.Card32())
	v.Window = Window(c.Card32())
	flag := c.Bool()
	c.Skip(19)
	return v, flag, c.Err()
}

func (v windowNotify) bytes(flag bool) []byte {
	e := xwire.NewEncoder(xwire.MessageSize)
	v.Header.EncodeTo(e)
	e.PutCard32(uint32(v.Event))
	e.PutCard32(uint32(v.Window))
	e.PutBool(flag)
	e.PutZero(19)
	return e.Bytes()
}

type DestroyNotifyEvent struct {
	xwire.Header
	Event  Window
	Window Window
}

// DestroyNotifyEventNew decodes a DestroyNotify event.
func DestroyNotifyEventNew(c *xwire.Cursor) (xwire.Event, error) {
	v, _, err := readWindowNotify(c)
	if err != nil {
		return nil, errors.Wrap(err, "DestroyNotify")
	}
	return DestroyNotifyEvent{Header: v.Header, Event: v.Event, Window: v.Window}, nil
}

// Bytes writes a DestroyNotifyEvent to its 32 byte wire form.
func (v DestroyNotifyEvent) Bytes() []byte {
	return windowNotify{v.Header, v.Event, v.Window}.bytes(false)
}

func (v DestroyNotifyEvent) String() string {
	return fmt.Sprintf("DestroyNotify {Sequence: %d, Event: %d, Window: %d}",
		v.Sequence, v.Event, v.Window)
}

type UnmapNotifyEvent struct {
	xwire.Header
	Event         Window
	Window        Window
	FromConfigure bool
}

// UnmapNotifyEventNew decodes an UnmapNotify event.
func UnmapNotifyEventNew(c *xwire.Cursor) (xwire.Event, error) {
	v, flag, err := readWindowNotify(c)
	if err != nil {
		return nil, errors.Wrap(err, "UnmapNotify")
	}
	return UnmapNotifyEvent{Header: v.Header, Event: v.Event, Window: v.Window,
		FromConfigure: flag}, nil
}

// Bytes writes an UnmapNotifyEvent to its 32 byte wire form.
func (v UnmapNotifyEvent) Bytes() []byte {
	return windowNotify{v.Header, v.Event, v.Window}.bytes(v.FromConfigure)
}

func (v UnmapNotifyEvent) String() string {
	return fmt.Sprintf("UnmapNotify {Sequence: %d, Event: %d, Window: %d, FromConfigure: %t}",
		v.Sequence, v.Event, v.Window, v.FromConfigure)
}

type MapNotifyEvent struct {
	xwire.Header
	Event            Window
	Window           Window
	OverrideRedirect bool
}

// MapNotifyEventNew decodes a MapNotify event.
func MapNotifyEventNew(c *xwire.Cursor) (xwire.Event, error) {
	v, flag, err := readWindowNotify(c)
	if err != nil {
		return nil, errors.Wrap(err, "MapNotify")
	}
	return MapNotifyEvent{Header: v.Header, Event: v.Event, Window: v.Window,
		OverrideRedirect: flag}, nil
}

// Bytes writes a MapNotifyEvent to its 32 byte wire form.
func (v MapNotifyEvent) Bytes() []byte {
	return windowNotify{v.Header, v.Event, v.Window}.bytes(v.OverrideRedirect)
}

func (v MapNotifyEvent) String() string {
	return fmt.Sprintf("MapNotify {Sequence: %d, Event: %d, Window: %d, OverrideRedirect: %t}",
		v.Sequence, v.Event, v.Window, v.OverrideRedirect)
}

type PropertyNotifyEvent struct {
	xwire.Header
	Window Window
	Atom   Atom
	Time   Timestamp
	State  byte
}

// PropertyNotifyEventNew decodes a PropertyNotify event.
func PropertyNotifyEventNew(c *xwire.Cursor) (xwire.Event, error) {
	var v PropertyNotifyEvent
	v.Header = xwire.ReadHeader(c)
	v.Window = Window(c.Card32())
	v.Atom = Atom(c.Card32())
	v.Time = Timestamp(c.Card32())
	v.State = c.Card8()
	c.Skip(15)
	if err := c.Err(); err != nil {
		return nil, errors.Wrap(err, "PropertyNotify")
	}
	return v, nil
}

// Bytes writes a PropertyNotifyEvent to its 32 byte wire form.
func (v PropertyNotifyEvent) Bytes() []byte {
	e := xwire.NewEncoder(xwire.MessageSize)
	v.Header.EncodeTo(e)
	e.PutCard32(uint32(v.Window))
	e.PutCard32(uint32(v.Atom))
	e.PutCard32(uint32(v.Time))
	e.PutCard8(v.State)
	e.PutZero(15)
	return e.Bytes()
}

func (v PropertyNotifyEvent) String() string {
	return fmt.Sprintf("PropertyNotify {Sequence: %d, Window: %d, Atom: %d, Time: %d, State: %d}",
		v.Sequence, v.Window, v.Atom, v.Time, v.State)
}

// ClientMessageEvent carries 20 bytes of client data. Detail in the header
// is the format of Data: 8, 16 or 32.
type ClientMessageEvent struct {
	xwire.Header
	Window Window
	Type   Atom
	Data   ClientMessageData
}

// ClientMessageEventNew decodes a ClientMessage event.
func ClientMessageEventNew(c *xwire.Cursor) (xwire.Event, error) {
	var v ClientMessageEvent
	v.Header = xwire.ReadHeader(c)
	v.Window = Window(c.Card32())
	v.Type = Atom(c.Card32())
	u, err := xwire.ReadUnion(c, clientMessageDataSize)
	if err != nil {
		return nil, errors.Wrap(err, "ClientMessage")
	}
	v.Data = ClientMessageData{u}
	return v, nil
}

// Format is the unit size of Data in bits.
func (v ClientMessageEvent) Format() byte { return v.Detail }

// Bytes writes a ClientMessageEvent to its 32 byte wire form.
func (v ClientMessageEvent) Bytes() []byte {
	e := xwire.NewEncoder(xwire.MessageSize)
	v.Header.EncodeTo(e)
	e.PutCard32(uint32(v.Window))
	e.PutCard32(uint32(v.Type))
	v.Data.EncodeTo(e)
	if e.Len() < xwire.MessageSize {
		e.PutZero(xwire.MessageSize - e.Len())
	}
	return e.Bytes()
}

func (v ClientMessageEvent) String() string {
	return fmt.Sprintf("ClientMessage {Sequence: %d, Format: %d, Window: %d, Type: %d}",
		v.Sequence, v.Format(), v.Window, v.Type)
}

const clientMessageDataSize = 20

// ClientMessageData is the payload of a ClientMessage: 20 bytes read as
// bytes, 16 bit or 32 bit values depending on the event's format.
type ClientMessageData struct {
	xwire.Union
}

// ClientMessageDataUnionData8New builds the payload from up to 20 bytes.
func ClientMessageDataUnionData8New(data []byte) ClientMessageData {
	raw := make([]byte, clientMessageDataSize)
	copy(raw, data)
	return ClientMessageData{xwire.UnionOf(raw)}
}

// ClientMessageDataUnionData16New builds the payload from up to ten 16 bit
// values.
func ClientMessageDataUnionData16New(data []uint16) ClientMessageData {
	e := xwire.NewEncoder(clientMessageDataSize)
	xwire.PutScalars(e, data)
	return ClientMessageDataUnionData8New(e.Bytes())
}

// ClientMessageDataUnionData32New builds the payload from up to five 32 bit
// values.
func ClientMessageDataUnionData32New(data []uint32) ClientMessageData {
	e := xwire.NewEncoder(clientMessageDataSize)
	xwire.PutScalars(e, data)
	return ClientMessageDataUnionData8New(e.Bytes())
}

func (d ClientMessageData) Data8() []byte {
	return append([]byte(nil), d.Bytes()...)
}

func (d ClientMessageData) Data16() []uint16 {
	vals, _ := xwire.ReadScalars[uint16](d.Cursor(), d.Size()/2)
	return vals
}

func (d ClientMessageData) Data32() []uint32 {
	vals, _ := xwire.ReadScalars[uint32](d.Cursor(), d.Size()/4)
	return vals
}
