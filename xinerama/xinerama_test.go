// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xinerama_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BurntSushi/xwire"
	"github.com/BurntSushi/xwire/xinerama"
	"github.com/BurntSushi/xwire/xwiretest"
)

const majorOpcode = 141

var heads = []xinerama.ScreenInfo{
	{XOrg: 0, YOrg: 0, Width: 1920, Height: 1080},
	{XOrg: 1920, YOrg: -200, Width: 1280, Height: 1024},
}

// newServer returns a server where XINERAMA is present with two heads.
func newServer() *xwiretest.Server {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	srv.AddExtension(xinerama.ExtName, majorOpcode, 0, 0)
	srv.Handle(majorOpcode, func(seq uint16, req []byte) [][]byte {
		e := xwire.NewEncoder(32)
		switch req[1] {
		case xinerama.QueryVersionOpcode:
			e.PutCard16(uint16(req[4]))
			e.PutCard16(uint16(req[5]))
		case xinerama.IsActiveOpcode:
			e.PutCard32(1)
		case xinerama.QueryScreensOpcode:
			e.PutCard32(uint32(len(heads)))
			e.PutZero(20)
			xwire.PutStructList(e, heads)
		default:
			return [][]byte{xwiretest.Error(seq, 1, 0, majorOpcode, uint16(req[1]))}
		}
		return [][]byte{xwiretest.Reply(seq, 0, e.Bytes())}
	})
	return srv
}

func connect(t *testing.T, srv *xwiretest.Server) *xwire.Conn {
	t.Helper()
	reg := xwire.NewRegistry()
	require.NoError(t, xinerama.Register(reg))
	X, err := xwire.NewConn(srv, reg,
		xwire.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	t.Cleanup(func() { X.Close() })
	return X
}

func TestQueryVersion(t *testing.T) {
	X := connect(t, newServer())

	reply, err := xinerama.QueryVersion(X, xinerama.MajorVersion, xinerama.MinorVersion).Reply()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), reply.Major)
	assert.Equal(t, uint16(1), reply.Minor)
}

func TestIsActive(t *testing.T) {
	X := connect(t, newServer())

	reply, err := xinerama.IsActive(X).Reply()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), reply.State)
}

func TestQueryScreens(t *testing.T) {
	srv := newServer()
	X := connect(t, srv)

	reply, err := xinerama.QueryScreens(X).Reply()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), reply.Number)
	assert.Equal(t, heads, reply.ScreenInfo)
	assert.Equal(t, uint32(4), reply.Length)

	reqs := srv.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, []byte{majorOpcode, xinerama.QueryScreensOpcode}, last[:2])
	assert.Len(t, last, 4)
}

func TestNotPresent(t *testing.T) {
	srv := xwiretest.NewServer(xwiretest.DefaultSetup())
	X := connect(t, srv)

	_, err := xinerama.QueryScreens(X).Reply()
	assert.True(t, errors.Is(err, xwire.ErrExtensionNotPresent))
	// Only the QueryExtension request went out.
	assert.Len(t, srv.Requests(), 1)
}

func TestScreenInfoEncoding(t *testing.T) {
	e := xwire.NewEncoder(8)
	heads[1].EncodeTo(e)
	buf := e.Bytes()
	require.Len(t, buf, heads[1].FixedSize())
	assert.Equal(t, uint16(1920), xwire.Order.Uint16(buf[0:]))
	assert.Equal(t, int16(-200), int16(xwire.Order.Uint16(buf[2:])))
	assert.Equal(t, uint16(1280), xwire.Order.Uint16(buf[4:]))
	assert.Equal(t, uint16(1024), xwire.Order.Uint16(buf[6:]))
}
