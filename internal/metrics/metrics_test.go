// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Registered(t *testing.T) {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	registered := make(map[string]bool)
	for _, family := range families {
		registered[family.GetName()] = true
	}

	for _, name := range []string{
		"casepipe_workflow_duration_seconds",
		"casepipe_phases_executed_total",
		"casepipe_records_processed_total",
		"casepipe_parse_errors_total",
		"casepipe_eval_errors_total",
		"casepipe_program_cache_size",
	} {
		assert.True(t, registered[name], "metric %q should be registered", name)
	}
}

func TestRecordPhase_IncrementsBothCounters(t *testing.T) {
	initialPhases := testutil.ToFloat64(phasesExecuted.WithLabelValues("score"))
	initialRecords := testutil.ToFloat64(recordsProcessed.WithLabelValues("score"))

	RecordPhase("score", 3)

	assert.Equal(t, initialPhases+1, testutil.ToFloat64(phasesExecuted.WithLabelValues("score")))
	assert.Equal(t, initialRecords+3, testutil.ToFloat64(recordsProcessed.WithLabelValues("score")))
}

func TestRecordParseError_IncrementsCounter(t *testing.T) {
	initial := testutil.ToFloat64(parseErrors)
	RecordParseError()
	assert.Equal(t, initial+1, testutil.ToFloat64(parseErrors))
}

func TestRecordEvalError_IncrementsByCode(t *testing.T) {
	initial := testutil.ToFloat64(evalErrorsCounter.WithLabelValues("LANG_TYPE_ERROR"))
	RecordEvalError("LANG_TYPE_ERROR")
	assert.Equal(t, initial+1, testutil.ToFloat64(evalErrorsCounter.WithLabelValues("LANG_TYPE_ERROR")))
}

func TestRecordWorkflowDuration_Observes(t *testing.T) {
	countBefore := testutil.CollectAndCount(workflowDuration)
	RecordWorkflowDuration(10 * time.Millisecond)
	countAfter := testutil.CollectAndCount(workflowDuration)
	assert.Greater(t, countAfter, 0)
	assert.GreaterOrEqual(t, countAfter, countBefore)
}
