package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/clusterviz"
)

const namespace = "clusterviz"

// Collector is a Prometheus-backed clusterviz.MetricsCollector.
type Collector struct {
	registry *prometheus.Registry

	initializations *prometheus.CounterVec
	runs            *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	runIterations   *prometheus.HistogramVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ clusterviz.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector with a fresh registry that also carries
// the Go runtime and process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		initializations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "initializations_total",
				Help:      "Total number of centroid initializations",
			},
			[]string{"strategy", "status"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of clustering runs by outcome",
			},
			[]string{"strategy", "outcome"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Clustering run latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		runIterations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_iterations",
				Help:      "Iterations executed per successful run",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
			},
			[]string{"strategy"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
	}

	c.registry.MustRegister(
		c.initializations, c.runs, c.runDuration, c.runIterations,
		c.requests, c.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry the Collector writes to.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// RegisterGauge exposes fn as a gauge sampled on every scrape.
func (c *Collector) RegisterGauge(name, help string, fn func() float64) error {
	return c.registry.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help},
		fn,
	))
}

// RegisterCounter exposes fn as a monotonically increasing counter sampled on
// every scrape.
func (c *Collector) RegisterCounter(name, help string, fn func() float64) error {
	return c.registry.Register(prometheus.NewCounterFunc(
		prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help},
		fn,
	))
}

// RecordInitialize implements clusterviz.MetricsCollector.
func (c *Collector) RecordInitialize(strategy clusterviz.Strategy, _ int, _ time.Duration, err error) {
	c.initializations.WithLabelValues(strategy.String(), status(err)).Inc()
}

// RecordRun implements clusterviz.MetricsCollector.
func (c *Collector) RecordRun(strategy clusterviz.Strategy, _ int, iterations int, outcome clusterviz.Outcome, duration time.Duration, err error) {
	s := strategy.String()
	if err != nil {
		c.runs.WithLabelValues(s, "error").Inc()
		return
	}
	c.runs.WithLabelValues(s, outcome.String()).Inc()
	c.runDuration.WithLabelValues(s).Observe(duration.Seconds())
	c.runIterations.WithLabelValues(s).Observe(float64(iterations))
}

// RecordRequest counts a served HTTP request.
func (c *Collector) RecordRequest(path, method string, code int, duration time.Duration) {
	c.requests.WithLabelValues(path, method, strconv.Itoa(code)).Inc()
	c.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
