// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"fmt"
)

// Response types in the first byte of every server message.
const (
	ErrorCode        = 0
	ReplyCode        = 1
	GenericEventCode = 35

	// SyntheticBit is set on events delivered with SendEvent.
	SyntheticBit = 0x80

	// MessageSize is the size of every error and event, and of the fixed
	// part of every reply.
	MessageSize = 32
)

// Header is the envelope every server message starts with. It can be read
// before anyone knows which concrete type the message is.
type Header struct {
	// ResponseType is the first byte as received, synthetic bit included.
	ResponseType byte
	// Detail is the second byte: the error code for errors, a type
	// specific field for events and replies.
	Detail   byte
	Sequence uint16
}

// Envelope returns the header itself; concrete messages embed Header to
// satisfy Event and Error.
func (h Header) Envelope() Header { return h }

// Code is the response type without the synthetic bit.
func (h Header) Code() byte { return h.ResponseType &^ SyntheticBit }

// Synthetic reports whether the event was sent by a client with SendEvent.
func (h Header) Synthetic() bool { return h.ResponseType&SyntheticBit != 0 }

func (h Header) EncodeTo(e *Encoder) {
	e.PutCard8(h.ResponseType)
	e.PutCard8(h.Detail)
	e.PutCard16(h.Sequence)
}

// ReadHeader reads the four envelope bytes.
func ReadHeader(c *Cursor) Header {
	var h Header
	h.ResponseType = c.Card8()
	h.Detail = c.Card8()
	h.Sequence = c.Card16()
	return h
}

// PeekHeader reads the envelope without moving c.
func PeekHeader(c *Cursor) (Header, error) {
	look := c.Copy()
	h := ReadHeader(look)
	return h, look.Err()
}

// ReplyHeader is the envelope of a reply. Length counts the 4 byte units
// that follow the fixed 32 bytes.
type ReplyHeader struct {
	Header
	Length uint32
}

// ReadReplyHeader reads the eight reply envelope bytes.
func ReadReplyHeader(c *Cursor) ReplyHeader {
	h := ReplyHeader{Header: ReadHeader(c)}
	h.Length = c.Card32()
	return h
}

// PayloadMax is the full size of the reply in bytes.
func (h ReplyHeader) PayloadMax() int { return MessageSize + 4*int(h.Length) }

func (h ReplyHeader) EncodeTo(e *Encoder) {
	h.Header.EncodeTo(e)
	e.PutCard32(h.Length)
}

// Event is any event the server can send. Use a type switch to get at the
// concrete event.
type Event interface {
	Envelope() Header
	// Bytes encodes the event back into its 32 byte wire form.
	Bytes() []byte
}

// Error is any protocol error the server can send. It is a Go error.
type Error interface {
	error
	Envelope() Header
	BadValue() uint32
}

// ReadErrorHeader reads the envelope of an error. The error code is the
// Detail byte, right after the response type.
func ReadErrorHeader(c *Cursor) (Header, error) {
	h := ReadHeader(c)
	if err := c.Err(); err != nil {
		return h, err
	}
	if h.ResponseType != ErrorCode {
		return h, usageErrorf("response type %d is not an error", h.ResponseType)
	}
	return h, nil
}

// EventDecoder builds an event from a complete message.
type EventDecoder func(c *Cursor) (Event, error)

// ErrorDecoder builds a protocol error from a complete message.
type ErrorDecoder func(c *Cursor) (Error, error)

// UnknownEvent is returned for events no registered extension claims.
type UnknownEvent struct {
	Header
	Raw []byte
}

func (ev UnknownEvent) Bytes() []byte { return ev.Raw }

func (ev UnknownEvent) String() string {
	return fmt.Sprintf("UnknownEvent{Code: %d, Synthetic: %t, Sequence: %d}",
		ev.Code(), ev.Synthetic(), ev.Sequence)
}

func readUnknownEvent(c *Cursor) (Event, error) {
	raw := c.Bytes(c.Remaining())
	if err := c.Err(); err != nil {
		return nil, err
	}
	return UnknownEvent{Header: ReadHeader(NewCursor(raw)), Raw: raw}, nil
}

// GenericError is the layout shared by all core errors and most extension
// errors.
type GenericError struct {
	Header
	Bad         uint32
	MinorOpcode uint16
	MajorOpcode byte
	// Name is the protocol name of the error, e.g. "BadWindow". Empty when
	// the error code is not known.
	Name string
}

// ReadGenericError decodes the common error layout. The error code is the
// byte right after the response type.
func ReadGenericError(c *Cursor, name string) (GenericError, error) {
	var v GenericError
	h, err := ReadErrorHeader(c)
	if err != nil {
		return GenericError{}, err
	}
	v.Header = h
	v.Bad = c.Card32()
	v.MinorOpcode = c.Card16()
	v.MajorOpcode = c.Card8()
	c.Skip(21)
	if err := c.Err(); err != nil {
		return GenericError{}, err
	}
	v.Name = name
	return v, nil
}

// GenericErrorDecoder returns a decoder producing GenericError values with
// the given name.
func GenericErrorDecoder(name string) ErrorDecoder {
	return func(c *Cursor) (Error, error) {
		v, err := ReadGenericError(c, name)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// ErrorCode is the protocol error number.
func (err GenericError) ErrorCode() byte { return err.Detail }

func (err GenericError) BadValue() uint32 { return err.Bad }

func (err GenericError) Error() string {
	name := err.Name
	if name == "" {
		name = fmt.Sprintf("Error%d", err.Detail)
	}
	return fmt.Sprintf("%s {Sequence: %d, BadValue: %d, MinorOpcode: %d, MajorOpcode: %d}",
		name, err.Sequence, err.Bad, err.MinorOpcode, err.MajorOpcode)
}

// Bytes encodes the error back into its 32 byte wire form.
func (err GenericError) Bytes() []byte {
	e := NewEncoder(MessageSize)
	err.Header.EncodeTo(e)
	e.PutCard32(err.Bad)
	e.PutCard16(err.MinorOpcode)
	e.PutCard8(err.MajorOpcode)
	e.PutZero(21)
	return e.Bytes()
}
