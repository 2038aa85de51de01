// Package metrics exports reactive runtime activity to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AnatoleLucet/sigwatch"
)

// Config configures the Prometheus collector.
type Config struct {
	// Namespace is the metrics namespace (default: "sigwatch").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "sigwatch",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector counts graph activity. It implements sigwatch.Observer and is
// meant to be passed to sigwatch.WithObserver.
type Collector struct {
	signalWrites     prometheus.Counter
	evaluations      *prometheus.CounterVec
	watcherScheduled prometheus.Counter
	watcherRuns      prometheus.Counter
	watcherDisposed  prometheus.Counter
}

var _ sigwatch.Observer = (*Collector)(nil)

func NewCollector(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Collector{
		signalWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signal_writes_total",
			Help:        "Signal writes that changed a value",
			ConstLabels: config.ConstLabels,
		}),

		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computed_evaluations_total",
			Help:        "Computed derivations run, by whether the value changed",
			ConstLabels: config.ConstLabels,
		}, []string{"changed"}),

		watcherScheduled: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watcher_schedules_total",
			Help:        "Watcher invalidations that scheduled a run",
			ConstLabels: config.ConstLabels,
		}),

		watcherRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watcher_runs_total",
			Help:        "Watcher expression evaluations",
			ConstLabels: config.ConstLabels,
		}),

		watcherDisposed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watcher_disposals_total",
			Help:        "Watchers disposed",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (c *Collector) SignalWritten() {
	c.signalWrites.Inc()
}

func (c *Collector) ComputedEvaluated(changed bool) {
	if changed {
		c.evaluations.WithLabelValues("true").Inc()
	} else {
		c.evaluations.WithLabelValues("false").Inc()
	}
}

func (c *Collector) WatcherScheduled() {
	c.watcherScheduled.Inc()
}

func (c *Collector) WatcherRun() {
	c.watcherRuns.Inc()
}

func (c *Collector) WatcherDisposed() {
	c.watcherDisposed.Inc()
}
