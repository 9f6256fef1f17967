// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BurntSushi/xwire"
	"github.com/BurntSushi/xwire/shape"
	"github.com/BurntSushi/xwire/xproto"
	"github.com/BurntSushi/xwire/xwiretest"
)

func TestParseBind(t *testing.T) {
	info, err := parseBind("shape=129,64,0x80")
	require.NoError(t, err)
	assert.Equal(t, xwire.ExtensionInfo{
		Name: "SHAPE", Present: true, MajorOpcode: 129, FirstEvent: 64, FirstError: 128,
	}, info)

	for _, bad := range []string{"SHAPE", "=1,2,3", "SHAPE=1,2", "SHAPE=1,2,300", "SHAPE=a,b,c"} {
		_, err := parseBind(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseHex(t *testing.T) {
	msg := xwiretest.Event(12, 0, 7, nil)
	raw, err := parseHex("0x" + hex.EncodeToString(msg[:16]) + "\n " + hex.EncodeToString(msg[16:]))
	require.NoError(t, err)
	assert.Equal(t, msg, raw)

	_, err = parseHex("zz")
	assert.Error(t, err)
	_, err = parseHex("0102")
	assert.True(t, errors.Is(err, xwire.ErrBounds))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xwire.yaml")
	data := "display: \":1\"\nlog_level: debug\nextensions:\n  - shape\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":1", cfg.Display)
	assert.Equal(t, []string{"shape"}, cfg.Extensions)
	level, err := cfg.level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = config{LogLevel: "loud"}.level()
	assert.Error(t, err)
}

func TestGlobalFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display: \":1\"\n"), 0o600))

	g := &globalFlags{configPath: path, display: ":2", verbose: true}
	require.NoError(t, g.load())
	assert.Equal(t, ":2", g.cfg.Display)
	assert.Equal(t, "debug", g.cfg.LogLevel)
	assert.NotNil(t, g.logger)
}

func TestRegistry(t *testing.T) {
	g := &globalFlags{cfg: config{Extensions: []string{"shape"}}}
	reg, err := g.registry()
	require.NoError(t, err)
	assert.Equal(t, []string{shape.ExtName}, reg.Names())

	g = &globalFlags{}
	reg, err = g.registry()
	require.NoError(t, err)
	assert.Equal(t, []string{shape.ExtName, "XINERAMA"}, reg.Names())

	g = &globalFlags{cfg: config{Extensions: []string{"GLX"}}}
	_, err = g.registry()
	assert.Error(t, err)
}

func TestDecodeMessage(t *testing.T) {
	g := &globalFlags{}
	reg, err := g.registry()
	require.NoError(t, err)
	bound := []xwire.ExtensionInfo{
		{Name: shape.ExtName, Present: true, MajorOpcode: 129, FirstEvent: 64},
	}

	var out bytes.Buffer
	notify := shape.NotifyEvent{
		Header:         xwire.Header{ResponseType: 64, Sequence: 3},
		AffectedWindow: 5,
		ExtentsWidth:   10,
		ExtentsHeight:  20,
	}
	require.NoError(t, decodeMessage(&out, reg, bound, notify.Bytes()))
	assert.Contains(t, out.String(), "event from SHAPE (0)")
	assert.Contains(t, out.String(), "AffectedWindow: 5")

	out.Reset()
	raw := xwiretest.Error(9, xproto.BadWindow, 0x1234, 18, 0)
	require.NoError(t, decodeMessage(&out, reg, bound, raw))
	assert.Contains(t, out.String(), "error from core (3)")
	assert.Contains(t, out.String(), "BadWindow")

	out.Reset()
	require.NoError(t, decodeMessage(&out, reg, bound, xwiretest.Event(90, 0, 0, nil)))
	assert.Contains(t, out.String(), "event from unknown")

	out.Reset()
	require.NoError(t, decodeMessage(&out, reg, bound, xwiretest.Reply(4, 0, make([]byte, 40))))
	assert.Contains(t, out.String(), "reply to sequence 4: 48 bytes")
}
