package journal

import (
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/changetree/pkg/changetree"
	"github.com/vango-dev/changetree/pkg/notify"
)

// Sink receives records in order.
type Sink interface {
	Write(r Record) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(r Record) error

// Write calls f(r).
func (f SinkFunc) Write(r Record) error {
	return f(r)
}

// MultiSink writes each record to every sink, stopping at the first error.
type MultiSink []Sink

// Write implements Sink.
func (m MultiSink) Write(r Record) error {
	for _, s := range m {
		if err := s.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

// WithLogger sets the logger for sink failures.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// Recorder turns every event of a listener tree into a Record for a Sink.
// Sink errors do not stop recording; the first one is kept for Err.
type Recorder struct {
	listener changetree.Listener
	sink     Sink
	now      func() time.Time
	logger   *slog.Logger

	propertyID   notify.HandlerID
	collectionID notify.HandlerID

	mu  sync.Mutex
	seq uint64
	err error
}

// NewRecorder attaches a recorder to l.
func NewRecorder(l changetree.Listener, sink Sink, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		listener: l,
		sink:     sink,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.propertyID = l.OnPropertyChanged(func(e changetree.PropertyChanged) {
		r.write(FromProperty(e, r.now().UTC()))
	})
	r.collectionID = l.OnCollectionChanged(func(e changetree.CollectionChanged) {
		r.write(FromCollection(e, r.now().UTC()))
	})
	return r
}

func (r *Recorder) write(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	rec.Seq = r.seq
	if err := r.sink.Write(rec); err != nil {
		r.logger.Error("journal write failed",
			slog.String("id", rec.ID),
			slog.Uint64("seq", rec.Seq),
			slog.Any("error", err),
		)
		if r.err == nil {
			r.err = err
		}
	}
}

// Count returns the number of records produced so far.
func (r *Recorder) Count() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Err returns the first sink error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close detaches the recorder from its listener. It does not close the sink.
func (r *Recorder) Close() error {
	r.listener.RemovePropertyHandler(r.propertyID)
	r.listener.RemoveCollectionHandler(r.collectionID)
	return r.Err()
}
