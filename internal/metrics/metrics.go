// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package metrics exposes Prometheus instrumentation for workflow
// execution. Pattern grounded on
// internal/access/policy/metrics.go.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// workflowDuration tracks the latency of a full ExecuteWorkflow call.
	workflowDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "casepipe_workflow_duration_seconds",
		Help:    "Histogram of workflow execution latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// phasesExecuted counts phases run, by phase kind.
	phasesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casepipe_phases_executed_total",
		Help: "Total number of phases executed, by phase kind",
	}, []string{"phase"})

	// recordsProcessed counts records passed through a phase, by phase kind.
	recordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casepipe_records_processed_total",
		Help: "Total number of records processed by a phase",
	}, []string{"phase"})

	// parseErrors counts DSL parse failures.
	parseErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casepipe_parse_errors_total",
		Help: "Total number of DSL parse errors",
	})

	// evalErrorsCounter counts evaluation failures, by error code.
	evalErrorsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casepipe_eval_errors_total",
		Help: "Total number of evaluation errors, by error code",
	}, []string{"code"})

	// programCacheGauge is reserved for a future compiled-program cache;
	// not yet wired into internal/vm.
	programCacheGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "casepipe_program_cache_size",
		Help: "Number of parsed programs held in the optional program cache",
	})
)

// RecordWorkflowDuration observes a completed workflow run.
func RecordWorkflowDuration(d time.Duration) {
	workflowDuration.Observe(d.Seconds())
}

// RecordPhase increments the phase and per-record counters for one
// executed phase.
func RecordPhase(phase string, recordCount int) {
	phasesExecuted.WithLabelValues(phase).Inc()
	recordsProcessed.WithLabelValues(phase).Add(float64(recordCount))
}

// RecordParseError increments the parse-error counter.
func RecordParseError() {
	parseErrors.Inc()
}

// RecordEvalError increments the evaluation-error counter for code.
func RecordEvalError(code string) {
	evalErrorsCounter.WithLabelValues(code).Inc()
}

func init() {
	// programCacheGauge is defined ahead of the cache it will track.
	// promauto has already registered it at variable initialization, so
	// the series is exposed; this line only references the variable.
	_ = programCacheGauge
}
