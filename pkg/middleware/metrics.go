package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/pathway/internal/errors"
	"github.com/vango-dev/pathway/pkg/router"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "pathway").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
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

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
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
		Namespace: "pathway",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
	inflight           prometheus.Gauge
	remoteConnections  prometheus.Gauge
	remoteErrors       *prometheus.CounterVec
}

// globalMetrics is created on the first call to Prometheus.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Navigation attempts by route, action and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "action", "outcome"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation duration in seconds, hooks included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route", "action"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Navigations that did not settle, by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_in_flight",
			Help:        "Navigations currently running",
			ConstLabels: config.ConstLabels,
		}),

		remoteConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "remote_connections",
			Help:        "Open remote window connections",
			ConstLabels: config.ConstLabels,
		}),

		remoteErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "remote_errors_total",
			Help:        "Remote window errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Prometheus creates middleware that records navigation metrics.
//
// Metrics collected:
//   - pathway_navigations_total: Counter by route, action and outcome
//   - pathway_navigation_duration_seconds: Histogram by route and action
//   - pathway_navigation_errors_total: Counter by error code
//   - pathway_navigations_in_flight: Gauge of running navigations
//   - pathway_remote_connections: Gauge (see RecordRemoteConnect)
//   - pathway_remote_errors_total: Counter (see RecordRemoteError)
//
// The metrics are registered once, on the registry of the first call.
//
//	r.Use(middleware.Prometheus(middleware.WithNamespace("shop")))
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) router.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return router.MiddlewareFunc(func(nav *router.Navigation, next func() error) error {
		m.inflight.Inc()
		start := time.Now()

		err := next()

		m.inflight.Dec()
		route := routeLabel(nav)
		action := nav.Action.String()
		m.navigationDuration.WithLabelValues(route, action).Observe(time.Since(start).Seconds())
		m.navigationsTotal.WithLabelValues(route, action, nav.Outcome.String()).Inc()

		if !nav.Outcome.OK() {
			code := errors.CodeOf(nav.Err)
			if code == "" {
				code = nav.Outcome.String()
			}
			m.navigationErrors.WithLabelValues(code).Inc()
		}
		return err
	})
}

// routeLabel keeps label cardinality bounded by the route table: route
// names, never raw paths.
func routeLabel(nav *router.Navigation) string {
	switch {
	case nav.To == nil:
		return "unmatched"
	case nav.To.Name == "":
		return "unnamed"
	default:
		return nav.To.Name
	}
}

// RecordRemoteConnect records a remote window connecting.
func RecordRemoteConnect() {
	if m := current(); m != nil {
		m.remoteConnections.Inc()
	}
}

// RecordRemoteDisconnect records a remote window disconnecting.
func RecordRemoteDisconnect() {
	if m := current(); m != nil {
		m.remoteConnections.Dec()
	}
}

// RecordRemoteError records a remote window error such as "handshake".
func RecordRemoteError(errorType string) {
	if m := current(); m != nil {
		m.remoteErrors.WithLabelValues(errorType).Inc()
	}
}

func current() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}
