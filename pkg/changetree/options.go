package changetree

import (
	"context"
	"log/slog"

	"github.com/vango-dev/changetree/pkg/notify"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a listener tree.
type Option func(*config)

// config is resolved once at the root and shared by every nested listener.
type config struct {
	name       string
	enumerator notify.Enumerator
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
	ctx        context.Context
}

// WithName names the root listener; every path is prefixed with it.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithEnumerator sets the property enumerator.
// Default: notify.DefaultEnumerator.
func WithEnumerator(e notify.Enumerator) Option {
	return func(c *config) {
		c.enumerator = e
	}
}

// WithLogger sets the logger for diagnostics of this tree.
// Default: the process-wide logger set by SetLogger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics records tree activity in m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithTracer sets the tracer for rebind and membership spans.
// Default: the global OpenTelemetry tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithContext sets the parent context of spans started by the tree.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.enumerator == nil {
		c.enumerator = notify.DefaultEnumerator
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(defaultTracerName)
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	return c
}
