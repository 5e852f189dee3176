package changetree

import (
	"log/slog"
	"sync/atomic"
)

var (
	debugTracing  atomic.Bool
	defaultLogger atomic.Pointer[slog.Logger]
)

// SetDebugTracing turns diagnostic trace lines on or off for every tree in
// the process. Tracing never changes behavior.
func SetDebugTracing(enabled bool) {
	debugTracing.Store(enabled)
}

// DebugTracing reports whether diagnostic trace lines are enabled.
func DebugTracing() bool {
	return debugTracing.Load()
}

// SetLogger sets the process-wide diagnostics logger.
// A nil logger restores slog.Default().
func SetLogger(logger *slog.Logger) {
	defaultLogger.Store(logger)
}

func (c *config) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// trace logs a debug line when tracing is enabled.
func (c *config) trace(msg string, attrs ...slog.Attr) {
	if !DebugTracing() {
		return
	}
	c.log().LogAttrs(c.ctx, slog.LevelDebug, msg, attrs...)
}
