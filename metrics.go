package qamcap

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// promcollector package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordEvaluate is called after each Evaluate call.
	// points is the number of requested SNR points, failed and clamped
	// count degenerate points, err is non-nil if the whole call failed.
	RecordEvaluate(points, failed, clamped int, duration time.Duration, err error)

	// RecordPoint is called after each SNR point.
	RecordPoint(status PointStatus, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEvaluate(int, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordPoint(PointStatus, time.Duration)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EvaluateCount      atomic.Int64
	EvaluateErrors     atomic.Int64
	EvaluateTotalNanos atomic.Int64
	PointCount         atomic.Int64
	PointFailed        atomic.Int64
	PointClamped       atomic.Int64
	PointTotalNanos    atomic.Int64
}

// RecordEvaluate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvaluate(points, failed, clamped int, duration time.Duration, err error) {
	b.EvaluateCount.Add(1)
	b.EvaluateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EvaluateErrors.Add(1)
	}
}

// RecordPoint implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPoint(status PointStatus, duration time.Duration) {
	b.PointCount.Add(1)
	b.PointTotalNanos.Add(duration.Nanoseconds())
	switch status {
	case StatusFailed:
		b.PointFailed.Add(1)
	case StatusClamped:
		b.PointClamped.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EvaluateCount:    b.EvaluateCount.Load(),
		EvaluateErrors:   b.EvaluateErrors.Load(),
		EvaluateAvgNanos: avg(b.EvaluateTotalNanos.Load(), b.EvaluateCount.Load()),
		PointCount:       b.PointCount.Load(),
		PointFailed:      b.PointFailed.Load(),
		PointClamped:     b.PointClamped.Load(),
		PointAvgNanos:    avg(b.PointTotalNanos.Load(), b.PointCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EvaluateCount    int64
	EvaluateErrors   int64
	EvaluateAvgNanos int64
	PointCount       int64
	PointFailed      int64
	PointClamped     int64
	PointAvgNanos    int64
}
