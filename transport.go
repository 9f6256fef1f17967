// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"bufio"
	"io"
	"net"
	"sync"

	"github.com/pkg/errors"
)

// Transport moves whole messages between a Conn and an X server. The Conn
// owns sequence numbers, cookies and decoding; a Transport only frames.
type Transport interface {
	// Setup returns the raw setup reply read during the handshake.
	Setup() []byte
	// Write queues one complete request.
	Write(req []byte) error
	// Flush sends every queued request.
	Flush() error
	// ReadMessage blocks until the next server message is available.
	ReadMessage() ([]byte, error)
	// PollMessage returns the next server message if one has already
	// arrived, or nil.
	PollMessage() ([]byte, error)
	// Err returns the error that broke the transport, if any.
	Err() error
	Close() error
}

const readBuffer = 100

// NetTransport is a Transport over a net.Conn. A reader goroutine frames
// incoming messages so that PollMessage never blocks.
type NetTransport struct {
	conn    net.Conn
	w       *bufio.Writer
	setup   []byte
	display Display

	msgs chan []byte
	done chan struct{}

	mu        sync.Mutex
	err       error
	closeOnce sync.Once
}

// Dial connects to the X server named by display (empty means $DISPLAY),
// authenticating with the matching Xauthority entry if there is one.
func Dial(display string) (*NetTransport, error) {
	d, err := ParseDisplay(display)
	if err != nil {
		return nil, err
	}
	network, addr := d.Addr()
	conn, err := net.Dial(network, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s %s", network, addr)
	}

	authName, authData, err := readAuthority(d.Host, d.NumberString())
	if err != nil {
		// Servers without access control accept an empty authorization.
		authName, authData = "", nil
	}
	t, err := NewNetTransport(conn, authName, authData)
	if err != nil {
		conn.Close()
		return nil, err
	}
	t.display = d
	return t, nil
}

// NewNetTransport performs the connection handshake on conn and starts
// reading server messages.
func NewNetTransport(conn net.Conn, authName string, authData []byte) (*NetTransport, error) {
	t := &NetTransport{
		conn: conn,
		w:    bufio.NewWriter(conn),
		msgs: make(chan []byte, readBuffer),
		done: make(chan struct{}),
	}
	r := bufio.NewReader(conn)
	if err := t.handshake(r, authName, authData); err != nil {
		return nil, err
	}
	go t.readLoop(r)
	return t, nil
}

func (t *NetTransport) handshake(r io.Reader, authName string, authData []byte) error {
	e := NewEncoder(12 + pad(len(authName)) + pad(len(authData)))
	e.PutCard8(orderByte)
	e.PutZero(1)
	e.PutCard16(11) // protocol major version
	e.PutCard16(0)  // protocol minor version
	e.PutCard16(uint16(len(authName)))
	e.PutCard16(uint16(len(authData)))
	e.PutZero(2)
	e.PutString(authName)
	e.Pad(4)
	e.PutBytes(authData)
	e.Pad(4)
	if _, err := t.conn.Write(e.Bytes()); err != nil {
		return errors.Wrap(err, "writing setup request")
	}

	raw, err := readSetupReply(r)
	if err != nil {
		return err
	}
	t.setup = raw
	return nil
}

// readSetupReply reads the 8 byte setup prefix, then the rest of the reply
// once its length is known.
func readSetupReply(r io.Reader) ([]byte, error) {
	c := NewStreamCursor(r, 8)
	status := c.Card8()
	reasonLen := c.Card8()
	c.Skip(4)
	length := c.Card16()
	if err := c.Err(); err != nil {
		return nil, errors.Wrap(err, "reading setup reply")
	}
	if err := c.Limit(8 + 4*int(length)); err != nil {
		return nil, err
	}

	switch status {
	case setupFailed:
		reason := c.String(int(reasonLen))
		if err := c.Err(); err != nil {
			return nil, errors.Wrap(err, "reading setup failure")
		}
		return nil, errors.Wrapf(ErrSetupFailed, "server refused connection: %s", reason)
	case setupAuthenticate:
		reason := c.String(c.Remaining())
		return nil, errors.Wrapf(ErrSetupFailed, "server requested authentication: %s", reason)
	case setupSuccess:
		raw, err := c.Detach()
		if err != nil {
			return nil, errors.Wrap(err, "reading setup reply")
		}
		return raw, nil
	}
	return nil, errors.Wrapf(ErrSetupFailed, "unknown setup status %d", status)
}

// readFrame reads one server message. Replies and generic events carry a
// length beyond the fixed 32 bytes.
func readFrame(r io.Reader) ([]byte, error) {
	c := NewStreamCursor(r, MessageSize)
	h, err := PeekHeader(c)
	if err != nil {
		return nil, err
	}
	if h.Code() == ReplyCode || h.Code() == GenericEventCode {
		rh := ReadReplyHeader(c)
		if err := c.Err(); err != nil {
			return nil, err
		}
		if err := c.Limit(rh.PayloadMax()); err != nil {
			return nil, err
		}
	}
	return c.Detach()
}

func (t *NetTransport) readLoop(r io.Reader) {
	defer close(t.msgs)
	for {
		buf, err := readFrame(r)
		if err != nil {
			t.setErr(errors.Wrap(err, "x protocol read error"))
			return
		}
		select {
		case t.msgs <- buf:
		case <-t.done:
			return
		}
	}
}

func (t *NetTransport) setErr(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err == nil {
		t.err = err
	}
}

// Display is the parsed display the transport was dialed with.
func (t *NetTransport) Display() Display { return t.display }

func (t *NetTransport) Setup() []byte { return t.setup }

func (t *NetTransport) Write(req []byte) error {
	if err := t.Err(); err != nil {
		return err
	}
	if _, err := t.w.Write(req); err != nil {
		t.setErr(errors.Wrap(err, "x protocol write error"))
		return t.Err()
	}
	return nil
}

func (t *NetTransport) Flush() error {
	if err := t.Err(); err != nil {
		return err
	}
	if err := t.w.Flush(); err != nil {
		t.setErr(errors.Wrap(err, "x protocol write error"))
		return t.Err()
	}
	return nil
}

func (t *NetTransport) ReadMessage() ([]byte, error) {
	buf, ok := <-t.msgs
	if !ok {
		return nil, t.closedErr()
	}
	return buf, nil
}

func (t *NetTransport) PollMessage() ([]byte, error) {
	select {
	case buf, ok := <-t.msgs:
		if !ok {
			return nil, t.closedErr()
		}
		return buf, nil
	default:
		return nil, nil
	}
}

func (t *NetTransport) closedErr() error {
	if err := t.Err(); err != nil {
		return err
	}
	return io.EOF
}

func (t *NetTransport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Close closes the connection and waits for the reader goroutine to stop.
func (t *NetTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		err = t.conn.Close()
		for range t.msgs {
		}
	})
	return err
}
