// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xwiretest provides an in-memory X server for testing code built on
// xwire. A Server is an xwire.Transport: requests written to it are answered
// by per-opcode handlers, and the answers are read back by the Conn.
package xwiretest

import (
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/BurntSushi/xwire"
)

// ErrWouldBlock is returned by ReadMessage when nothing is left to read. A
// real server would block forever, which is never what a test wants.
var ErrWouldBlock = errors.New("xwiretest: read would block")

// Handler answers one request. seq is the request's 16 bit sequence number.
// It returns the messages the server sends back, in order.
type Handler func(seq uint16, req []byte) [][]byte

// Server is a scripted X server.
type Server struct {
	mu         sync.Mutex
	setup      []byte
	seq        uint16
	handlers   map[byte]Handler
	extensions map[string]xwire.ExtensionInfo
	requests   [][]byte
	out        [][]byte
	flushes    int
	err        error
	closed     bool
}

// NewServer returns a server with the given setup reply. It answers
// QueryExtension for extensions added with AddExtension, and GetInputFocus.
func NewServer(setup Setup) *Server {
	s := &Server{
		setup:      setup.Bytes(),
		handlers:   make(map[byte]Handler),
		extensions: make(map[string]xwire.ExtensionInfo),
	}
	s.handlers[98] = s.queryExtension
	s.handlers[43] = getInputFocus
	return s
}

// Handle installs h for requests with the given major opcode.
func (s *Server) Handle(opcode byte, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[opcode] = h
}

// AddExtension makes QueryExtension report name as present.
func (s *Server) AddExtension(name string, major, firstEvent, firstError byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name = strings.ToUpper(name)
	s.extensions[name] = xwire.ExtensionInfo{
		Name:        name,
		Present:     true,
		MajorOpcode: major,
		FirstEvent:  firstEvent,
		FirstError:  firstError,
	}
}

// Push queues messages the server sends on its own, like events.
func (s *Server) Push(msgs ...[]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out = append(s.out, msgs...)
}

// Break makes every later call fail with err, like a dropped connection.
func (s *Server) Break(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Requests returns every request received so far.
func (s *Server) Requests() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.requests...)
}

// Sequence is the 16 bit sequence number of the last request received.
func (s *Server) Sequence() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Flushes counts the calls to Flush.
func (s *Server) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

// Pending is the number of messages not yet read.
func (s *Server) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.out)
}

// Closed reports whether Close was called.
func (s *Server) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Drain removes every pending message and returns them as one stream.
func (s *Server) Drain() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stream []byte
	for _, msg := range s.out {
		stream = append(stream, msg...)
	}
	s.out = nil
	return stream
}

func (s *Server) Setup() []byte { return s.setup }

func (s *Server) Write(req []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if s.closed {
		return errors.New("xwiretest: write on closed server")
	}
	s.seq++
	s.requests = append(s.requests, append([]byte(nil), req...))
	if h := s.handlers[req[0]]; h != nil {
		s.out = append(s.out, h(s.seq, req)...)
	}
	return nil
}

func (s *Server) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return s.err
}

func (s *Server) ReadMessage() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if len(s.out) == 0 {
		return nil, ErrWouldBlock
	}
	msg := s.out[0]
	s.out = s.out[1:]
	return msg, nil
}

func (s *Server) PollMessage() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if len(s.out) == 0 {
		return nil, nil
	}
	msg := s.out[0]
	s.out = s.out[1:]
	return msg, nil
}

func (s *Server) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Server) queryExtension(seq uint16, req []byte) [][]byte {
	c := xwire.NewCursor(req)
	c.Skip(4)
	n := c.Card16()
	c.Skip(2)
	name := c.String(int(n))

	info := s.extensions[strings.ToUpper(name)]
	e := xwire.NewEncoder(4)
	e.PutBool(info.Present)
	e.PutCard8(info.MajorOpcode)
	e.PutCard8(info.FirstEvent)
	e.PutCard8(info.FirstError)
	return [][]byte{Reply(seq, 0, e.Bytes())}
}

func getInputFocus(seq uint16, req []byte) [][]byte {
	e := xwire.NewEncoder(4)
	e.PutCard32(1) // focus: PointerRoot
	return [][]byte{Reply(seq, 1, e.Bytes())}
}

var _ xwire.Transport = (*Server)(nil)
