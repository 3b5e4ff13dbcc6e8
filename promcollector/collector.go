// Package promcollector exports qamcap metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, err := promcollector.New(reg)
//	ev, _ := qamcap.New(qamcap.WithMetricsCollector(mc))
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/qamcap"
)

// Collector implements qamcap.MetricsCollector on top of Prometheus
// counters and histograms.
type Collector struct {
	evaluations *prometheus.CounterVec
	evalLatency prometheus.Histogram
	points      *prometheus.CounterVec
	ptLatency   prometheus.Histogram
}

var _ qamcap.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg. A nil reg
// selects prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qamcap_evaluations_total",
			Help: "Total Evaluate calls",
		}, []string{"status"}),
		evalLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "qamcap_evaluation_duration_seconds",
			Help:    "Wall time of Evaluate calls",
			Buckets: prometheus.DefBuckets,
		}),
		points: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qamcap_points_total",
			Help: "Total SNR points evaluated",
		}, []string{"status"}),
		ptLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "qamcap_point_duration_seconds",
			Help:    "Time spent in the quadrature of one SNR point",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}

	for _, m := range []prometheus.Collector{c.evaluations, c.evalLatency, c.points, c.ptLatency} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordEvaluate implements qamcap.MetricsCollector.
func (c *Collector) RecordEvaluate(_, _, _ int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.evaluations.WithLabelValues(status).Inc()
	c.evalLatency.Observe(d.Seconds())
}

// RecordPoint implements qamcap.MetricsCollector.
func (c *Collector) RecordPoint(status qamcap.PointStatus, d time.Duration) {
	c.points.WithLabelValues(status.String()).Inc()
	c.ptLatency.Observe(d.Seconds())
}
