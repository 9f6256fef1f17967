// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xproto_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BurntSushi/xwire"
	"github.com/BurntSushi/xwire/xproto"
	"github.com/BurntSushi/xwire/xwiretest"
)

func connect(t *testing.T, srv *xwiretest.Server) *xwire.Conn {
	t.Helper()
	reg := xwire.NewRegistry()
	require.NoError(t, xproto.Register(reg))
	X, err := xwire.NewConn(srv, reg,
		xwire.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	t.Cleanup(func() { X.Close() })
	return X
}

func TestInternAtom(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	srv.Handle(xproto.InternAtomOpcode, func(seq uint16, req []byte) [][]byte {
		c := xwire.NewCursor(req)
		c.Skip(4)
		n := c.Card16()
		c.Skip(2)
		name := c.String(int(n))
		e := xwire.NewEncoder(4)
		if name == "WM_PROTOCOLS" {
			e.PutCard32(300)
		} else {
			e.PutCard32(0)
		}
		return [][]byte{xwiretest.Reply(seq, 0, e.Bytes())}
	})
	X := connect(t, srv)

	reply, err := xproto.InternAtom(X, true, "WM_PROTOCOLS").Reply()
	require.NoError(t, err)
	assert.Equal(t, xproto.Atom(300), reply.Atom)
	assert.Equal(t, uint16(1), reply.Sequence)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, byte(xproto.InternAtomOpcode), reqs[0][0])
	assert.Equal(t, byte(1), reqs[0][1])
	// 8 byte header and a 12 byte name padded to 12.
	assert.Len(t, reqs[0], 20)
	assert.Equal(t, uint16(5), xwire.Order.Uint16(reqs[0][2:]))
}

func TestInternAtomNamePadding(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	X := connect(t, srv)

	xproto.InternAtomUnchecked(X, false, "ABCDE")
	require.NoError(t, X.Sync())
	reqs := srv.Requests()
	require.NotEmpty(t, reqs)
	assert.Len(t, reqs[0], 16)
	assert.Equal(t, []byte{0, 0, 0}, reqs[0][13:])
}

func TestGetAtomName(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	srv.Handle(xproto.GetAtomNameOpcode, func(seq uint16, req []byte) [][]byte {
		atom := xwire.Order.Uint32(req[4:])
		if atom != uint32(xproto.AtomWmName) {
			return [][]byte{xwiretest.Error(seq, xproto.BadAtom, atom, xproto.GetAtomNameOpcode, 0)}
		}
		name := "WM_NAME"
		e := xwire.NewEncoder(32)
		e.PutCard16(uint16(len(name)))
		e.PutZero(22)
		e.PutString(name)
		return [][]byte{xwiretest.Reply(seq, 0, e.Bytes())}
	})
	X := connect(t, srv)

	reply, err := xproto.GetAtomName(X, xproto.AtomWmName).Reply()
	require.NoError(t, err)
	assert.Equal(t, "WM_NAME", reply.Name)
	assert.Equal(t, uint32(2), reply.Length)

	_, err = xproto.GetAtomName(X, 9999).Reply()
	require.Error(t, err)
	var xerr xproto.CoreError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, "BadAtom", xerr.Name)
	assert.Equal(t, uint32(9999), xerr.BadValue())
	assert.Contains(t, err.Error(), "BadAtom")
}

func TestGetAtomNameUncheckedError(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	srv.Handle(xproto.GetAtomNameOpcode, func(seq uint16, req []byte) [][]byte {
		return [][]byte{xwiretest.Error(seq, xproto.BadAtom, 1, xproto.GetAtomNameOpcode, 0)}
	})
	X := connect(t, srv)

	_, err := xproto.GetAtomNameUnchecked(X, 1).Reply()
	assert.True(t, errors.Is(err, xwire.ErrNoReply))

	ev, err := X.WaitForEvent()
	assert.Nil(t, ev)
	var xerr xproto.CoreError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, byte(xproto.BadAtom), xerr.ErrorCode())
}

func TestGetProperty(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	srv.Handle(xproto.GetPropertyOpcode, func(seq uint16, req []byte) [][]byte {
		e := xwire.NewEncoder(32)
		e.PutCard32(uint32(xproto.AtomCardinal))
		e.PutCard32(0)
		e.PutCard32(3)
		e.PutZero(12)
		xwire.PutScalars(e, []uint32{10, 20, 30})
		return [][]byte{xwiretest.Reply(seq, 32, e.Bytes())}
	})
	X := connect(t, srv)

	reply, err := xproto.GetProperty(X, false, 1, xproto.AtomWmName, xproto.AtomAny, 0, 64).Reply()
	require.NoError(t, err)
	assert.Equal(t, byte(32), reply.Format)
	assert.Equal(t, xproto.AtomCardinal, reply.Type)
	assert.Len(t, reply.Value, 12)
	vals, err := reply.Value32()
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 20, 30}, vals)

	req := srv.Requests()[0]
	assert.Len(t, req, 24)
	assert.Equal(t, uint32(64), xwire.Order.Uint32(req[20:]))
}

func TestChangePropertyChecked(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	srv.Handle(xproto.ChangePropertyOpcode, func(seq uint16, req []byte) [][]byte {
		window := xwire.Order.Uint32(req[4:])
		if window != 1 {
			return [][]byte{xwiretest.Error(seq, xproto.BadWindow, window, xproto.ChangePropertyOpcode, 0)}
		}
		return nil
	})
	X := connect(t, srv)

	ok := xproto.ChangePropertyChecked(X, xproto.PropModeReplace, 1, xproto.AtomWmName,
		xproto.AtomString, 8, 5, []byte("hello"))
	bad := xproto.ChangePropertyChecked(X, xproto.PropModeReplace, 7, xproto.AtomWmName,
		xproto.AtomString, 8, 5, []byte("hello"))

	assert.NoError(t, ok.Check())
	err := bad.Check()
	var xerr xproto.CoreError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, "BadWindow", xerr.Name)
	assert.Equal(t, uint32(7), xerr.BadValue())

	req := srv.Requests()[0]
	// 24 byte header and 5 bytes of data padded to 8.
	assert.Len(t, req, 32)
	assert.Equal(t, "hello", string(req[24:29]))
	assert.Equal(t, uint32(5), xwire.Order.Uint32(req[20:]))
}

func TestChangePropertyShortData(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	X := connect(t, srv)

	ck := xproto.ChangePropertyChecked(X, xproto.PropModeReplace, 1, xproto.AtomWmName,
		xproto.AtomCardinal, 32, 2, []byte{1, 2, 3, 4})
	assert.True(t, errors.Is(ck.Check(), xwire.ErrCount))

	ck = xproto.ChangePropertyChecked(X, xproto.PropModeReplace, 1, xproto.AtomWmName,
		xproto.AtomCardinal, 12, 1, []byte{1, 2, 3, 4})
	assert.True(t, errors.Is(ck.Check(), xwire.ErrUsage))
	assert.Empty(t, srv.Requests())
}

func TestDeletePropertyUncheckedError(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	srv.Handle(xproto.DeletePropertyOpcode, func(seq uint16, req []byte) [][]byte {
		return [][]byte{xwiretest.Error(seq, xproto.BadWindow, 5, xproto.DeletePropertyOpcode, 0)}
	})
	X := connect(t, srv)

	xproto.DeleteProperty(X, 5, xproto.AtomWmName)
	require.NoError(t, X.Sync())
	_, err := X.PollForEvent()
	var xerr xproto.CoreError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, "BadWindow", xerr.Name)
}

func TestSendEvent(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	X := connect(t, srv)

	ev := xproto.ClientMessageEvent{
		Header: xwire.Header{ResponseType: xproto.ClientMessage, Detail: 32},
		Window: 42,
		Type:   300,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{1, 2, 3}),
	}
	require.NoError(t, xproto.SendEventChecked(X, false, 42, xproto.EventMaskNoEvent, ev).Check())

	req := srv.Requests()[0]
	require.Len(t, req, 44)
	assert.Equal(t, uint16(11), xwire.Order.Uint16(req[2:]))
	assert.Equal(t, ev.Bytes(), req[12:])
}

type shortEvent struct{ xwire.Header }

func (shortEvent) Bytes() []byte { return []byte{1, 2, 3} }

func TestSendEventBadEvent(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	X := connect(t, srv)

	err := xproto.SendEventChecked(X, false, 1, 0, shortEvent{}).Check()
	assert.True(t, errors.Is(err, xwire.ErrUsage))
	assert.Empty(t, srv.Requests())
}

func TestGetInputFocus(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	X := connect(t, srv)

	reply, err := xproto.GetInputFocus(X).Reply()
	require.NoError(t, err)
	assert.Equal(t, byte(xproto.InputFocusPointerRoot), reply.RevertTo)
	assert.Equal(t, xproto.Window(1), reply.Focus)
}

func TestListExtensions(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	names := []string{"BIG-REQUESTS", "SHAPE", "XINERAMA"}
	srv.Handle(xproto.ListExtensionsOpcode, func(seq uint16, req []byte) [][]byte {
		e := xwire.NewEncoder(64)
		e.PutZero(24)
		for _, name := range names {
			xproto.Str{Name: name}.EncodeTo(e)
		}
		return [][]byte{xwiretest.Reply(seq, byte(len(names)), e.Bytes())}
	})
	X := connect(t, srv)

	reply, err := xproto.ListExtensions(X).Reply()
	require.NoError(t, err)
	require.Len(t, reply.Names, 3)
	for i, name := range names {
		assert.Equal(t, name, reply.Names[i].Name)
		assert.Equal(t, byte(len(name)), reply.Names[i].NameLen)
	}
}

func TestNoOperation(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	X := connect(t, srv)

	require.NoError(t, xproto.NoOperationChecked(X).Check())
	xproto.NoOperation(X)
	require.NoError(t, X.Sync())
	reqs := srv.Requests()
	// The checked request is followed by the round trip proving it
	// succeeded.
	require.Len(t, reqs, 4)
	assert.Equal(t, byte(xproto.NoOperationOpcode), reqs[0][0])
	assert.Equal(t, byte(xproto.GetInputFocusOpcode), reqs[1][0])
	assert.Equal(t, byte(xproto.NoOperationOpcode), reqs[2][0])
}
