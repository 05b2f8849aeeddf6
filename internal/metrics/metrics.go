package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "qvcreds"

// Metrics records secret fetches and database connection attempts.
type Metrics struct {
	SecretFetches   *prometheus.CounterVec
	Connections     *prometheus.CounterVec
	ConnectDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests usually want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SecretFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "secret_fetches_total",
			Help:      "Secret fetches by secret name and result.",
		}, []string{"secret", "result"}),
		Connections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_connections_total",
			Help:      "Database connection attempts by intent and result.",
		}, []string{"intent", "result"}),
		ConnectDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_connect_duration_seconds",
			Help:      "Time to open and verify a database connection.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"intent"}),
	}
	if reg != nil {
		m.SecretFetches = register(reg, m.SecretFetches)
		m.Connections = register(reg, m.Connections)
		m.ConnectDuration = register(reg, m.ConnectDuration)
	}
	return m
}

// register reuses a collector already registered under the same name, so
// building Metrics twice against one registry is safe.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveFetch(secret string, err error) {
	if m == nil {
		return
	}
	m.SecretFetches.WithLabelValues(secret, result(err)).Inc()
}

func (m *Metrics) ObserveConnect(intent string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.Connections.WithLabelValues(intent, result(err)).Inc()
	m.ConnectDuration.WithLabelValues(intent).Observe(elapsed.Seconds())
}
