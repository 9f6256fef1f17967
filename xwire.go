// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// State is where a Conn is in its life.
type State int

const (
	Connecting State = iota
	Connected
	Errored
	Disconnected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Errored:
		return "errored"
	case Disconnected:
		return "disconnected"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const (
	getInputFocusOpcode = 43
	keymapNotify        = 11
)

// queued is one entry of the event queue: an event, or a protocol error
// nobody waits for.
type queued struct {
	ev  Event
	err Error
}

// A Conn represents a connection to an X server.
//
// A Conn runs no goroutines of its own. Every method takes the same lock,
// and only the blocking ones (Reply, Check, WaitForEvent, Sync) read from
// the transport while holding it.
type Conn struct {
	mu sync.Mutex

	id         string
	t          Transport
	registry   *Registry
	dispatch   *DispatchMap
	extensions map[string]ExtensionInfo
	setup      Setup
	maxReqLen  int

	state State
	err   error

	// lastSent is the full sequence number of the last request written.
	// lastSeen is the highest full sequence number read back.
	lastSent uint64
	lastSeen uint64

	// inflight holds the *cookieState of every tracked request, in
	// sequence order.
	inflight *queue.Queue
	events   *queue.Queue

	xid         xidGenerator
	log         xwirelog
	metrics     *metrics
	maxUnsynced uint64
}

// Connect dials the display (empty means $DISPLAY) and sets up a Conn on it.
func Connect(display string, reg *Registry, opts ...Option) (*Conn, error) {
	t, err := Dial(display)
	if err != nil {
		return nil, err
	}
	c, err := NewConn(t, reg, opts...)
	if err != nil {
		t.Close()
		return nil, err
	}
	return c, nil
}

// NewConn sets up a connection over a transport whose handshake is done. It
// decodes the setup reply, freezes reg, and binds every extension in reg
// with QueryExtension. Extensions the server lacks are skipped.
//
// NewConn does not close t when it fails.
func NewConn(t Transport, reg *Registry, opts ...Option) (*Conn, error) {
	if t == nil || reg == nil {
		return nil, usageErrorf("NewConn needs a transport and a registry")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	id := uuid.NewString()
	c := &Conn{
		id:          id,
		t:           t,
		registry:    reg,
		extensions:  make(map[string]ExtensionInfo),
		state:       Connecting,
		inflight:    queue.New(),
		events:      queue.New(),
		log:         newLogger(cfg.logger, id),
		metrics:     newMetrics(cfg.registerer, cfg.namespace),
		maxUnsynced: cfg.maxUnsynced,
	}

	setup, err := ReadSetup(t.Setup())
	if err != nil {
		return nil, errors.Wrap(err, "decoding setup")
	}
	c.setup = setup
	c.maxReqLen = int(setup.MaximumRequestLength)
	if c.maxReqLen == 0 {
		c.maxReqLen = defaultMaxRequestLength
	}
	c.xid = newXidGenerator(setup.ResourceIdBase, setup.ResourceIdMask)

	reg.Freeze()
	// Core decoders only, until the extensions are bound.
	if c.dispatch, err = NewDispatchMap(reg, nil); err != nil {
		return nil, err
	}
	c.state = Connected

	if err := c.bindExtensions(); err != nil {
		return nil, err
	}
	c.log.Info("connected", "vendor", setup.Vendor,
		"protocol", fmt.Sprintf("%d.%d", setup.ProtocolMajorVersion, setup.ProtocolMinorVersion),
		"extensions", len(c.extensions))
	return c, nil
}

// ID identifies the connection in log records.
func (c *Conn) ID() string { return c.id }

// Setup returns the decoded setup reply.
func (c *Conn) Setup() Setup { return c.setup }

// Registry returns the registry the connection was built with.
func (c *Conn) Registry() *Registry { return c.registry }

// State returns the current connection state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error that broke the connection, or nil.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Conn) usable() error {
	if c.state == Connected {
		return nil
	}
	if c.err != nil {
		return connError{c.err}
	}
	return errors.Wrapf(ErrInvalidConn, "connection is %s", c.state)
}

// fail moves the connection to Errored and resolves every pending cookie.
func (c *Conn) fail(err error) {
	if c.state != Connected && c.state != Connecting {
		return
	}
	c.log.Error("connection failed", "err", err)
	c.state = Errored
	c.err = err
	c.abandon(connError{err})
}

func (c *Conn) abandon(err error) {
	for c.inflight.Length() > 0 {
		st := c.inflight.Remove().(*cookieState)
		st.done = true
		st.err = err
	}
}

// Close closes the connection. Pending cookies resolve with ErrInvalidConn.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Disconnected {
		return nil
	}
	c.state = Disconnected
	c.abandon(errors.Wrap(ErrInvalidConn, "connection closed"))
	c.log.Debug("closing connection")
	return c.t.Close()
}

// SendRequest sends one request and returns its cookie. buf must start with
// a request header (see NewRequest); SendRequest pads it and writes the
// length. The Conn copies buf, so the caller keeps ownership of it.
//
// Errors found before anything is sent (a short request, a request longer
// than the server allows, a broken connection) are carried by the cookie.
func (c *Conn) SendRequest(buf []byte, hasReply bool, mode CheckMode) Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()

	checked := mode.checked(hasReply)
	if err := c.usable(); err != nil {
		return c.unsent(buf, hasReply, checked, err)
	}
	req, err := finishRequest(buf, c.maxReqLen)
	if err != nil {
		return c.unsent(buf, hasReply, checked, err)
	}
	if c.lastSent-c.lastSeen >= c.maxUnsynced {
		if err := c.syncLocked(); err != nil {
			return c.unsent(buf, hasReply, checked, err)
		}
	}
	c.metrics.request(hasReply, mode)
	return c.sendLocked(req, hasReply, checked)
}

// unsent logs a request that never reached the server and returns the
// cookie reporting why.
func (c *Conn) unsent(buf []byte, hasReply, checked bool, err error) Cookie {
	var opcode byte
	if len(buf) > 0 {
		opcode = buf[0]
	}
	c.log.Error("request not sent", "opcode", opcode, "err", err)
	return failedCookie(c, hasReply, checked, err)
}

// sendLocked assigns the next sequence number to req and writes it.
// Unchecked void requests are not tracked.
func (c *Conn) sendLocked(req []byte, hasReply, checked bool) Cookie {
	if err := c.t.Write(req); err != nil {
		c.fail(errors.Wrap(err, "sending request"))
		return c.unsent(req, hasReply, checked, c.usable())
	}
	c.lastSent++
	st := &cookieState{seq: c.lastSent, checked: checked, hasReply: hasReply}
	if hasReply || checked {
		c.inflight.Add(st)
	} else {
		st.done = true
	}
	return Cookie{conn: c, state: st}
}

// syncLocked makes a round trip with GetInputFocus and reads everything up
// to its reply.
func (c *Conn) syncLocked() error {
	ck := c.sendLocked(syncRequest(), true, true)
	_, err := c.waitLocked(ck.state)
	return err
}

func syncRequest() []byte {
	req := NewRequest(getInputFocusOpcode, 0).Bytes()
	Order.PutUint16(req[2:], 1)
	return req
}

// Sync blocks until the server has processed every request sent so far.
// Errors of unchecked requests end up in the event queue.
func (c *Conn) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return err
	}
	return c.syncLocked()
}

// Flush writes every buffered request to the server.
func (c *Conn) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushLocked()
}

func (c *Conn) flushLocked() error {
	if err := c.usable(); err != nil {
		return err
	}
	if err := c.t.Flush(); err != nil {
		c.fail(errors.Wrap(err, "flushing requests"))
		return c.usable()
	}
	return nil
}

func (c *Conn) waitForReply(st *cookieState) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waitLocked(st)
}

// waitForCheck resolves a checked void request. Unless a request with a
// reply went out after it, nothing the server sends would prove it
// succeeded, so a GetInputFocus goes out first.
func (c *Conn) waitForCheck(st *cookieState) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !st.done && !c.answeredAfter(st.seq) && c.usable() == nil {
		c.sendLocked(syncRequest(), true, true)
	}
	_, err := c.waitLocked(st)
	return err
}

// waitLocked reads messages until st is resolved.
func (c *Conn) waitLocked(st *cookieState) ([]byte, error) {
	if st.done {
		return st.reply, st.err
	}
	start := time.Now()
	defer c.metrics.waited(start)

	if err := c.flushLocked(); err != nil && !st.done {
		st.done, st.err = true, err
	}
	for !st.done {
		if err := c.readOne(); err != nil && !st.done {
			st.done, st.err = true, err
		}
	}
	return st.reply, st.err
}

// WaitForEvent returns the next event from the server. It blocks until one
// is available. Protocol errors of unchecked requests come back as the
// error result, with a nil event.
func (c *Conn) WaitForEvent() (Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		if ev, xerr, ok := c.dequeue(); ok {
			return ev, xerr
		}
		if err := c.flushLocked(); err != nil {
			return nil, err
		}
		if err := c.readOne(); err != nil {
			return nil, err
		}
	}
}

// PollForEvent returns the next event if one has already arrived, or nil
// and nil. It never blocks on the server.
func (c *Conn) PollForEvent() (Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ev, xerr, ok := c.dequeue(); ok {
		return ev, xerr
	}
	if err := c.usable(); err != nil {
		return nil, err
	}
	for {
		buf, err := c.t.PollMessage()
		if err != nil {
			c.fail(errors.Wrap(err, "reading from server"))
			return nil, c.usable()
		}
		if buf == nil {
			break
		}
		c.handle(buf)
	}
	if ev, xerr, ok := c.dequeue(); ok {
		return ev, xerr
	}
	return nil, nil
}

func (c *Conn) dequeue() (Event, error, bool) {
	if c.events.Length() == 0 {
		return nil, nil, false
	}
	q := c.events.Remove().(queued)
	if q.err != nil {
		return nil, q.err, true
	}
	return q.ev, nil, true
}

func (c *Conn) readOne() error {
	if err := c.usable(); err != nil {
		return err
	}
	buf, err := c.t.ReadMessage()
	if err != nil {
		c.fail(errors.Wrap(err, "reading from server"))
		return c.usable()
	}
	c.handle(buf)
	return nil
}

// widen recovers the full sequence number of a message from its low 16
// bits. It is the latest request sent with those bits.
func (c *Conn) widen(seq uint16) uint64 {
	back := uint64(uint16(c.lastSent) - seq)
	if back > c.lastSent {
		return uint64(seq)
	}
	return c.lastSent - back
}

// handle routes one server message.
func (c *Conn) handle(buf []byte) {
	h, err := PeekHeader(NewCursor(buf))
	if err != nil {
		c.fail(errors.Wrap(err, "short message from server"))
		return
	}
	if h.Code() == keymapNotify {
		// KeymapNotify has no sequence number.
		c.handleEvent(buf)
		return
	}
	full := c.widen(h.Sequence)
	if full > c.lastSeen {
		c.lastSeen = full
	}

	switch h.Code() {
	case ErrorCode:
		c.handleError(buf, full)
	case ReplyCode:
		c.handleReply(buf, full)
	default:
		c.handleEvent(buf)
	}
}

// answeredAfter reports whether a request with a reply, sent after seq, is
// still pending. Its reply or error will settle everything before it.
func (c *Conn) answeredAfter(seq uint64) bool {
	for i := c.inflight.Length() - 1; i >= 0; i-- {
		st := c.inflight.Get(i).(*cookieState)
		if st.seq <= seq {
			return false
		}
		if st.hasReply {
			return true
		}
	}
	return false
}

// take removes the pending request with sequence seq, if it is tracked.
//
// A message for seq also settles every older checked request without a
// reply: the server got past them without an error. Older requests with a
// reply stay pending until their own reply or error arrives.
func (c *Conn) take(seq uint64) *cookieState {
	for c.inflight.Length() > 0 {
		st := c.inflight.Peek().(*cookieState)
		switch {
		case st.seq > seq:
			return nil
		case st.seq == seq:
			c.inflight.Remove()
			return st
		case st.hasReply:
			return c.takeBehind(seq)
		}
		c.inflight.Remove()
		st.done = true
	}
	return nil
}

// takeBehind is take when an older request with a reply heads the queue.
// It rotates the whole queue once, which keeps the order of what stays.
func (c *Conn) takeBehind(seq uint64) *cookieState {
	var found *cookieState
	for n := c.inflight.Length(); n > 0; n-- {
		st := c.inflight.Remove().(*cookieState)
		switch {
		case st.seq == seq:
			found = st
		case st.seq < seq && !st.hasReply:
			st.done = true
		default:
			c.inflight.Add(st)
		}
	}
	return found
}

func (c *Conn) handleReply(buf []byte, seq uint64) {
	st := c.take(seq)
	if st == nil {
		c.log.Debug("dropping reply nobody waits for", "sequence", seq)
		return
	}
	c.metrics.reply()
	st.done = true
	st.reply = buf
}

func (c *Conn) handleError(buf []byte, seq uint64) {
	xerr, res, err := c.dispatch.DecodeError(buf)
	if err != nil {
		c.fail(errors.Wrap(err, "decoding error"))
		return
	}

	st := c.take(seq)
	if st != nil && st.checked {
		c.metrics.protocolError(res.Extension, "cookie")
		st.done = true
		st.err = xerr
		return
	}
	if st != nil {
		st.done = true
		st.err = errors.Wrapf(ErrNoReply, "request %d failed with %s", seq, xerr)
	}
	c.metrics.protocolError(res.Extension, "event")
	c.log.Debug("queueing unchecked error", "sequence", seq, "err", xerr)
	c.events.Add(queued{err: xerr})
}

func (c *Conn) handleEvent(buf []byte) {
	ev, res, err := c.dispatch.DecodeEvent(buf)
	if err != nil {
		c.log.Warn("undecodable event", "extension", res.Extension,
			"index", res.Index, "err", err)
		ev, err = readUnknownEvent(NewCursor(buf))
		if err != nil {
			c.fail(errors.Wrap(err, "short event"))
			return
		}
	}
	if _, ok := ev.(UnknownEvent); ok {
		c.log.Debug("unknown event", "code", buf[0]&^SyntheticBit,
			"extension", res.Extension)
	}
	c.metrics.event(res.Extension)
	c.events.Add(queued{ev: ev})
}

// Extension returns the binding of a registered extension. It returns
// ErrExtensionNotPresent when the server lacks it.
func (c *Conn) Extension(name string) (ExtensionInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, ok := c.extensions[normalizeName(name)]
	if !ok || !info.Present {
		return info, errors.Wrapf(ErrExtensionNotPresent, "%s", normalizeName(name))
	}
	return info, nil
}

// Extensions returns the bindings of every registered extension, present
// or not, sorted by name.
func (c *Conn) Extensions() []ExtensionInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	infos := make([]ExtensionInfo, 0, len(c.extensions))
	for _, info := range c.extensions {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
