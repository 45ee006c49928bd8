// Package telemetry exports clustering and HTTP metrics to Prometheus.
//
// Collector implements clusterviz.MetricsCollector and also records served
// requests. Every metric lives on the Collector's own registry, so several
// collectors (one per test, for example) never clash.
package telemetry
