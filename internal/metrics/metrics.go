// v0
// internal/metrics/metrics.go
// Package metrics instruments analysis runs for Prometheus scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoagent_runs_total",
		Help: "Completed analysis runs by outcome.",
	}, []string{"outcome"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ecoagent_run_duration_seconds",
		Help:    "Wall time of one full campus analysis.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	roomsEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecoagent_rooms_evaluated_total",
		Help: "Room evaluations across all runs.",
	})

	inferenceCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoagent_inference_calls_total",
		Help: "Reasoning-service calls by layer and result.",
	}, []string{"layer", "result"})

	reportPublish = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoagent_report_publish_total",
		Help: "Campus report publish attempts by result.",
	}, []string{"result"})
)

// IncRun records one finished run with the given outcome label ("ok",
// "config_error", "internal_error", "cancelled").
func IncRun(outcome string) { runsTotal.WithLabelValues(outcome).Inc() }

// ObserveRunDuration records the run wall time in seconds.
func ObserveRunDuration(seconds float64) { runDuration.Observe(seconds) }

// AddRoomsEvaluated counts n room evaluations.
func AddRoomsEvaluated(n int) { roomsEvaluated.Add(float64(n)) }

// IncInference records one reasoning call ("granted", "fallback").
func IncInference(layer, result string) { inferenceCalls.WithLabelValues(layer, result).Inc() }

// IncPublish records one report publish attempt ("ok", "error").
func IncPublish(result string) { reportPublish.WithLabelValues(result).Inc() }

// Handler exposes the default registry for GET /metrics.
func Handler() http.Handler { return promhttp.Handler() }
