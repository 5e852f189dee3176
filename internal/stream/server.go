package stream

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/changetree/internal/demo"
	"github.com/vango-dev/changetree/internal/journal"
	"github.com/vango-dev/changetree/pkg/changetree"
)

// ErrClosed is returned for requests arriving after Close.
var ErrClosed = errors.New("stream: server closed")

var json = jsoniter.ConfigFastest

// Options configures a Server.
type Options struct {
	// Name is the root listener name. Defaults to "Order".
	Name string

	// Order is the observed model. Defaults to demo.NewSampleOrder().
	Order *demo.Order

	// Addr is the listen address used by Run.
	Addr string

	// EventsPath and MetricsPath default to /events and /metrics.
	EventsPath  string
	MetricsPath string

	// ShutdownTimeout bounds graceful shutdown in Run. Defaults to 5s.
	ShutdownTimeout time.Duration

	// Registry receives the listener and stream metrics. A fresh registry
	// is created when nil.
	Registry *prometheus.Registry

	// Journal also receives every record when set.
	Journal journal.Sink

	// AccessLog enables chi's request logger.
	AccessLog bool

	Logger *slog.Logger
}

// Server owns one order, the listener tree over it and the HTTP surface.
// Mutations and tree reads run on a single owner goroutine, so the model
// and the listener tree are never touched concurrently.
type Server struct {
	opts     Options
	order    *demo.Order
	listener changetree.Listener
	recorder *journal.Recorder
	hub      *Hub
	registry *prometheus.Registry
	router   chi.Router

	work      chan func()
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

// New builds the listener tree and the router and starts the owner loop.
func New(opts Options) (*Server, error) {
	if opts.Name == "" {
		opts.Name = "Order"
	}
	if opts.Order == nil {
		opts.Order = demo.NewSampleOrder()
	}
	if opts.EventsPath == "" {
		opts.EventsPath = "/events"
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	metrics := changetree.NewMetrics(changetree.WithRegistry(opts.Registry))
	clients := promauto.With(opts.Registry).NewGauge(prometheus.GaugeOpts{
		Namespace: "changetree",
		Subsystem: "stream",
		Name:      "clients",
		Help:      "Number of connected websocket clients",
	})

	l, err := changetree.New(opts.Order,
		changetree.WithName(opts.Name),
		changetree.WithMetrics(metrics),
		changetree.WithLogger(opts.Logger),
	)
	if err != nil {
		return nil, err
	}

	hub := NewHub(opts.Logger)
	hub.onCount = func(n int) { clients.Set(float64(n)) }

	sinks := journal.MultiSink{hub}
	if opts.Journal != nil {
		sinks = append(sinks, opts.Journal)
	}

	s := &Server{
		opts:     opts,
		order:    opts.Order,
		listener: l,
		recorder: journal.NewRecorder(l, sinks, journal.WithLogger(opts.Logger)),
		hub:      hub,
		registry: opts.Registry,
		work:     make(chan func()),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	s.router = s.routes()

	go s.loop()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.opts.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Get(s.opts.EventsPath, s.hub.HandleWebSocket)
	r.Get("/tree", s.handleTree)
	r.Get("/ops", s.handleOps)
	r.Post("/mutations", s.handleMutation)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, s.opts.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Recorder returns the recorder feeding the hub and the journal.
func (s *Server) Recorder() *journal.Recorder {
	return s.recorder
}

func (s *Server) loop() {
	defer close(s.loopDone)
	for {
		select {
		case fn := <-s.work:
			fn()
		case <-s.done:
			return
		}
	}
}

// do runs fn on the owner goroutine and waits for its result.
func (s *Server) do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	select {
	case s.work <- func() { result <- fn() }:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Apply runs a named mutation on the owner goroutine.
func (s *Server) Apply(ctx context.Context, op string, args demo.Args) error {
	return s.do(ctx, func() error {
		return demo.Apply(s.order, op, args)
	})
}

// Tree describes the current listener tree.
func (s *Server) Tree(ctx context.Context) (*demo.TreeNode, error) {
	var node *demo.TreeNode
	err := s.do(ctx, func() error {
		node = demo.Describe(s.listener)
		return nil
	})
	return node, err
}

// Run serves on opts.Addr until ctx is cancelled, then shuts down
// gracefully and closes the server.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.opts.Logger.Info("serving", slog.String("addr", s.opts.Addr), slog.String("root", s.opts.Name))

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		s.Close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	s.hub.Close()
	err := httpServer.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close stops the owner loop, detaches the recorder and disposes the
// listener tree. It is safe to call more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		<-s.loopDone
		s.recorder.Close()
		s.listener.Dispose()
		s.hub.Close()
	})
}
