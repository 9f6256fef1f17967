// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// Order is the byte order of every scalar on the wire. xwire always
// announces the host's native order during connection setup, so this is
// the order the server uses when talking back to us.
var Order binary.ByteOrder = nativeOrder()

// orderByte is the byte-order marker sent in the setup request.
var orderByte = nativeOrderByte()

func nativeOrder() binary.ByteOrder {
	if cpu.IsBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func nativeOrderByte() byte {
	if cpu.IsBigEndian {
		return 'B'
	}
	return 'l'
}

// pad rounds a length up to a multiple of 4 bytes.
func pad(n int) int { return (n + 3) &^ 3 }

// padLen returns how many bytes must follow n bytes to reach a 4 byte boundary.
func padLen(n int) int { return pad(n) - n }
