// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// metrics counts traffic on a connection. A nil *metrics records nothing.
type metrics struct {
	requests  *prometheus.CounterVec
	replies   prometheus.Counter
	events    *prometheus.CounterVec
	xerrors   *prometheus.CounterVec
	replyWait prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer, namespace string) *metrics {
	if reg == nil {
		return nil
	}
	return &metrics{
		requests: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests sent, by reply kind and check mode.",
		}, []string{"kind", "mode"})),
		replies: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Replies matched to a pending cookie.",
		})),
		events: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Events received, by owning extension.",
		}, []string{"extension"})),
		xerrors: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Protocol errors received, by owning extension and delivery path.",
		}, []string{"extension", "delivery"})),
		replyWait: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reply_wait_seconds",
			Help:      "Time spent blocked waiting for a reply or check.",
			Buckets:   prometheus.DefBuckets,
		})),
	}
}

// register adds c to reg, or returns the collector already registered under
// the same description so several connections can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *metrics) request(hasReply bool, mode CheckMode) {
	if m == nil {
		return
	}
	kind := "void"
	if hasReply {
		kind = "reply"
	}
	m.requests.WithLabelValues(kind, mode.String()).Inc()
}

func (m *metrics) reply() {
	if m == nil {
		return
	}
	m.replies.Inc()
}

func (m *metrics) event(ext string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(ext).Inc()
}

func (m *metrics) protocolError(ext, delivery string) {
	if m == nil {
		return
	}
	m.xerrors.WithLabelValues(ext, delivery).Inc()
}

func (m *metrics) waited(start time.Time) {
	if m == nil {
		return
	}
	m.replyWait.Observe(time.Since(start).Seconds())
}
