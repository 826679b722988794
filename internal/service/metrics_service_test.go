package service

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceScheduleCounters(t *testing.T) {
	metrics := NewMetricsService()

	metrics.RecordScheduleOperation("create", "created")
	metrics.RecordScheduleOperation("create", "conflict")
	metrics.RecordScheduleOperation("create", "conflict")
	metrics.RecordConflicts(1, 0)
	metrics.RecordConflicts(2, 3)
	metrics.RecordEvent("schedule.created", "handled")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.scheduleOps.WithLabelValues("create", "conflict")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.conflicts.WithLabelValues("instructor")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.conflicts.WithLabelValues("room")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.events.WithLabelValues("schedule.created", "handled")))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService
	assert.NotPanics(t, func() {
		metrics.RecordScheduleOperation("delete", "deleted")
		metrics.RecordConflicts(1, 1)
		metrics.RecordEvent("schedule.deleted", "dropped")
	})
}
