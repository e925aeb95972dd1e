package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "river_conditions"

// Metrics holds the Prometheus collectors for one run.
type Metrics struct {
	registry *prometheus.Registry

	FetchDuration  *prometheus.HistogramVec // labels: source
	FetchErrors    *prometheus.CounterVec   // labels: source
	Classification *prometheus.GaugeVec     // labels: table, label, tier; always 1
	FlowRate       *prometheus.GaugeVec     // labels: label; m³/s
	LastRun        prometheus.Gauge
}

// NewMetrics creates the run metrics on a private registry. The registry is
// private because a run exports once to a textfile rather than serving scrapes.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a source fetch.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Source fetches that failed.",
		}, []string{"source"}),
		Classification: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "classification",
			Help:      "Current tier per result; the value is always 1.",
		}, []string{"table", "label", "tier"}),
		FlowRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flow_cubic_metres_per_second",
			Help:      "Derived flow rate per gauge.",
		}, []string{"label"}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the report was generated.",
		}),
	}

	m.registry.MustRegister(
		m.FetchDuration,
		m.FetchErrors,
		m.Classification,
		m.FlowRate,
		m.LastRun,
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric in Prometheus text format for the
// node_exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
