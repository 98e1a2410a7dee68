package bundler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	strategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shellpack_bundle_strategy_duration_seconds",
			Help:    "Duration of a packaging strategy run in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"type"},
	)

	strategyRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shellpack_bundle_strategy_runs_total",
			Help: "Total number of packaging strategy runs by outcome",
		},
		[]string{"type", "outcome"},
	)

	artifactsProduced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shellpack_bundle_artifacts_total",
			Help: "Total number of artifacts produced by packaging strategies",
		},
		[]string{"type"},
	)
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)
