package clusterviz

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    runCounter    *prometheus.CounterVec
//	    runHistogram  prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordRun(s clusterviz.Strategy, k, iterations int, o clusterviz.Outcome, d time.Duration, err error) {
//	    p.runCounter.WithLabelValues(s.String(), o.String()).Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordInitialize is called after each standalone initialization.
	// duration is the total time taken, err is nil if successful.
	RecordInitialize(strategy Strategy, k int, duration time.Duration, err error)

	// RecordRun is called after each run. iterations and outcome are only
	// meaningful when err is nil.
	RecordRun(strategy Strategy, k, iterations int, outcome Outcome, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInitialize(Strategy, int, time.Duration, error)          {}
func (NoopMetricsCollector) RecordRun(Strategy, int, int, Outcome, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InitializeCount  atomic.Int64
	InitializeErrors atomic.Int64
	RunCount         atomic.Int64
	RunErrors        atomic.Int64
	RunIterations    atomic.Int64
	RunConverged     atomic.Int64
	RunCapped        atomic.Int64
	RunTotalNanos    atomic.Int64
}

// RecordInitialize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInitialize(_ Strategy, _ int, _ time.Duration, err error) {
	b.InitializeCount.Add(1)
	if err != nil {
		b.InitializeErrors.Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_ Strategy, _ int, iterations int, outcome Outcome, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
		return
	}
	b.RunIterations.Add(int64(iterations))
	switch outcome {
	case OutcomeConverged:
		b.RunConverged.Add(1)
	case OutcomeMaxIterations:
		b.RunCapped.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InitializeCount:  b.InitializeCount.Load(),
		InitializeErrors: b.InitializeErrors.Load(),
		RunCount:         b.RunCount.Load(),
		RunErrors:        b.RunErrors.Load(),
		RunIterations:    b.RunIterations.Load(),
		RunConverged:     b.RunConverged.Load(),
		RunCapped:        b.RunCapped.Load(),
		RunAvgNanos:      b.getAvgRunNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgRunNanos() int64 {
	count := b.RunCount.Load()
	if count == 0 {
		return 0
	}
	return b.RunTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InitializeCount  int64
	InitializeErrors int64
	RunCount         int64
	RunErrors        int64
	RunIterations    int64
	RunConverged     int64
	RunCapped        int64
	RunAvgNanos      int64
}
