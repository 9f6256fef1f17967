package xwire

import (
	"log/slog"
)

// PrintLog controls whether xwire emits log records. By default, it is
// enabled.
var PrintLog = true

// xwirelog is a wrapper around a slog.Logger so we can control whether it
// should output anything.
type xwirelog struct {
	*slog.Logger
}

func newLogger(base *slog.Logger, connID string) xwirelog {
	if base == nil {
		base = slog.Default()
	}
	return xwirelog{base.With(slog.String("component", "xwire"),
		slog.String("conn_id", connID))}
}

func (lg xwirelog) Debug(msg string, args ...interface{}) {
	if PrintLog {
		lg.Logger.Debug(msg, args...)
	}
}

func (lg xwirelog) Info(msg string, args ...interface{}) {
	if PrintLog {
		lg.Logger.Info(msg, args...)
	}
}

func (lg xwirelog) Warn(msg string, args ...interface{}) {
	if PrintLog {
		lg.Logger.Warn(msg, args...)
	}
}

func (lg xwirelog) Error(msg string, args ...interface{}) {
	if PrintLog {
		lg.Logger.Error(msg, args...)
	}
}
