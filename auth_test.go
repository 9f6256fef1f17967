// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authEntry(family uint16, addr, disp, name string, data []byte) []byte {
	var b bytes.Buffer
	put := func(s []byte) {
		binary.Write(&b, binary.BigEndian, uint16(len(s)))
		b.Write(s)
	}
	binary.Write(&b, binary.BigEndian, family)
	put([]byte(addr))
	put([]byte(disp))
	put([]byte(name))
	put(data)
	return b.Bytes()
}

func TestFindAuthority(t *testing.T) {
	cookie := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	var file []byte
	file = append(file, authEntry(familyLocal, "otherhost", "0", mitMagicCookie, []byte{9})...)
	file = append(file, authEntry(familyLocal, "myhost", "1", mitMagicCookie, []byte{8})...)
	file = append(file, authEntry(familyLocal, "myhost", "0", "XDM-AUTHORIZATION-1", []byte{7})...)
	file = append(file, authEntry(familyLocal, "myhost", "0", mitMagicCookie, cookie)...)

	name, data, err := findAuthority(bytes.NewReader(file), "myhost", "0")
	require.NoError(t, err)
	assert.Equal(t, mitMagicCookie, name)
	assert.Equal(t, cookie, data)

	_, _, err = findAuthority(bytes.NewReader(file), "myhost", "2")
	assert.Error(t, err)
}

func TestFindAuthorityWildcard(t *testing.T) {
	file := authEntry(familyWild, "", "", mitMagicCookie, []byte{42})
	name, data, err := findAuthority(bytes.NewReader(file), "anything", "3")
	require.NoError(t, err)
	assert.Equal(t, mitMagicCookie, name)
	assert.Equal(t, []byte{42}, data)
}

func TestFindAuthorityTruncated(t *testing.T) {
	file := authEntry(familyLocal, "myhost", "0", mitMagicCookie, []byte{1, 2, 3})
	_, _, err := findAuthority(bytes.NewReader(file[:len(file)-2]), "myhost", "0")
	assert.Error(t, err)
}

func TestReadAuthorityFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Xauthority")
	entry := authEntry(familyLocal, "myhost", "5", mitMagicCookie, []byte{1, 1})
	require.NoError(t, os.WriteFile(path, entry, 0o600))
	t.Setenv("XAUTHORITY", path)

	name, data, err := readAuthority("myhost", "5")
	require.NoError(t, err)
	assert.Equal(t, mitMagicCookie, name)
	assert.Equal(t, []byte{1, 1}, data)
}

func TestReadAuthorityNoFile(t *testing.T) {
	t.Setenv("XAUTHORITY", "")
	t.Setenv("HOME", "")
	_, _, err := readAuthority("myhost", "0")
	assert.Error(t, err)
}
