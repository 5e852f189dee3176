package changetree

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/changetree/pkg/notify"
)

// MetricsConfig configures the Prometheus metrics of a listener tree.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "changetree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "changetree",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus metrics recorded by listener trees.
// A nil *Metrics records nothing. Several trees may share one Metrics.
//
// Metrics collected:
//   - changetree_listeners_active: Gauge of live listeners by kind
//   - changetree_listeners_created_total: Counter of listeners built by kind
//   - changetree_notifications_total: Counter of upstream notifications by kind
//   - changetree_rebinds_total: Counter of property listener rebuilds
//   - changetree_membership_changes_total: Counter of collection changes by action
//   - changetree_errors_total: Counter of subscription errors by type
type Metrics struct {
	listenersActive   *prometheus.GaugeVec
	listenersCreated  *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	rebinds           prometheus.Counter
	membershipChanges *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
}

// NewMetrics creates and registers the metrics.
// Registering twice with the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		listenersActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listeners_active",
			Help:        "Number of live listeners",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		listenersCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listeners_created_total",
			Help:        "Total number of listeners built",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of notifications received from observed sources",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		rebinds: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rebinds_total",
			Help:        "Total number of property listener rebuilds",
			ConstLabels: config.ConstLabels,
		}),

		membershipChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "membership_changes_total",
			Help:        "Total number of collection membership changes",
			ConstLabels: config.ConstLabels,
		}, []string{"action"}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total number of subscription errors",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

func (m *Metrics) listenerCreated(kind notify.Kind) {
	if m == nil {
		return
	}
	m.listenersCreated.WithLabelValues(kind.String()).Inc()
	m.listenersActive.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) listenerDisposed(kind notify.Kind) {
	if m == nil {
		return
	}
	m.listenersActive.WithLabelValues(kind.String()).Dec()
}

func (m *Metrics) notification(kind notify.Kind) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) rebind() {
	if m == nil {
		return
	}
	m.rebinds.Inc()
}

func (m *Metrics) membershipChange(action notify.Action) {
	if m == nil {
		return
	}
	m.membershipChanges.WithLabelValues(action.String()).Inc()
}

func (m *Metrics) recordError(err error) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(categorizeError(err)).Inc()
}

// categorizeError returns a low-cardinality label for err.
func categorizeError(err error) string {
	var shape *ShapeError
	switch {
	case errors.As(err, &shape):
		return "shape"
	case errors.Is(err, ErrUnkeyableItem):
		return "unkeyable_item"
	case errors.Is(err, ErrNilSource):
		return "nil_source"
	default:
		return "internal"
	}
}
