package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Write results recorded by PersistWrite.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups the storefront collectors. A nil *Metrics is valid and
// records nothing, so engines can be built without a registry.
type Metrics struct {
	persistWrites    *prometheus.CounterVec
	persistCollapsed *prometheus.CounterVec
	mutations        *prometheus.CounterVec
	catalogEvaluate  prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		persistWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persist_writes_total",
				Help:      "Store writes issued by the debouncer, by key and result.",
			},
			[]string{"key", "result"},
		),
		persistCollapsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persist_collapsed_total",
				Help:      "Pending writes superseded before their delay elapsed.",
			},
			[]string{"key"},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Engine mutations, by engine and action.",
			},
			[]string{"engine", "action"},
		),
		catalogEvaluate: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "catalog_evaluate_seconds",
				Help:      "Duration of catalog query evaluations.",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
		),
	}

	reg.MustRegister(m.persistWrites, m.persistCollapsed, m.mutations, m.catalogEvaluate)
	return m
}

// PersistWrite counts one store write for key with the given result.
func (m *Metrics) PersistWrite(key, result string) {
	if m == nil {
		return
	}
	m.persistWrites.WithLabelValues(key, result).Inc()
}

func (m *Metrics) PersistCollapsed(key string) {
	if m == nil {
		return
	}
	m.persistCollapsed.WithLabelValues(key).Inc()
}

// Mutation counts one state change of engine.
func (m *Metrics) Mutation(engine, action string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(engine, action).Inc()
}

func (m *Metrics) CatalogEvaluated(d time.Duration) {
	if m == nil {
		return
	}
	m.catalogEvaluate.Observe(d.Seconds())
}

// PersistWritesCounter exposes the underlying counter for assertions.
func (m *Metrics) PersistWritesCounter(key, result string) prometheus.Counter {
	return m.persistWrites.WithLabelValues(key, result)
}

func (m *Metrics) PersistCollapsedCounter(key string) prometheus.Counter {
	return m.persistCollapsed.WithLabelValues(key)
}

func (m *Metrics) MutationsCounter(engine, action string) prometheus.Counter {
	return m.mutations.WithLabelValues(engine, action)
}

type Timer struct {
	start time.Time
}

// StartTimer starts measuring from now.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
