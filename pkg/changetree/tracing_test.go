package changetree

import (
	"context"
	"testing"

	"github.com/vango-dev/changetree/pkg/notify"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingTracer struct {
	embedded.Tracer
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	ctx, span := noop.NewTracerProvider().Tracer("").Start(ctx, name, opts...)
	s := &recordingSpan{Span: span, name: name}
	t.spans = append(t.spans, s)
	return ctx, s
}

type recordingSpan struct {
	trace.Span
	name   string
	status codes.Code
	ended  bool
}

func (s *recordingSpan) SetStatus(code codes.Code, _ string) { s.status = code }
func (s *recordingSpan) End(...trace.SpanEndOption)         { s.ended = true }

func TestTracing(t *testing.T) {
	tracer := &recordingTracer{}
	root := &node{Items: notify.NewCollection[*node]()}
	l, err := New(root, WithTracer(tracer))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer l.Dispose()

	root.SetX(1)
	root.Items.Add(&node{})

	if len(tracer.spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(tracer.spans))
	}
	for i, want := range []string{spanRebind, spanMembership} {
		s := tracer.spans[i]
		if s.name != want {
			t.Errorf("span[%d] = %q, want %q", i, s.name, want)
		}
		if !s.ended || s.status != codes.Ok {
			t.Errorf("span[%d] ended=%v status=%v, want ended Ok", i, s.ended, s.status)
		}
	}
}

func TestTracing_Error(t *testing.T) {
	tracer := &recordingTracer{}
	s := &shifty{}
	l, err := New(s, WithTracer(tracer))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer l.Dispose()

	s.Notify("missing")

	if len(tracer.spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(tracer.spans))
	}
	if tracer.spans[0].status != codes.Error {
		t.Errorf("status = %v, want Error", tracer.spans[0].status)
	}
}
