// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xwire

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// maxUnsynced bounds the number of requests sent without reading anything
// back. Sequence numbers are 16 bits on the wire, so more than 65535
// requests in flight would make them ambiguous.
const maxUnsynced = 65530

type config struct {
	logger      *slog.Logger
	registerer  prometheus.Registerer
	namespace   string
	maxUnsynced uint64
}

func defaultConfig() config {
	return config{
		logger:      slog.Default(),
		namespace:   "xwire",
		maxUnsynced: maxUnsynced,
	}
}

// Option configures a Conn.
type Option func(*config)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics registers connection metrics with reg. Without it no metrics
// are collected.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = reg
	}
}

// WithMetricsNamespace sets the metrics namespace (default: "xwire").
func WithMetricsNamespace(namespace string) Option {
	return func(c *config) {
		c.namespace = namespace
	}
}

// WithMaxUnsynced sets after how many requests without a round trip the
// connection forces one. Values above the default are clamped.
func WithMaxUnsynced(n uint64) Option {
	return func(c *config) {
		if n == 0 || n > maxUnsynced {
			n = maxUnsynced
		}
		c.maxUnsynced = n
	}
}
