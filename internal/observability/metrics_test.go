package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/", "GET", 200, 30*time.Millisecond)
	m.RecordError("/auth/login", "POST", "UNAUTHORIZED")
	m.RecordFormOutcome("login", "success")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/|GET|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMs["/|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/auth/login|POST|UNAUTHORIZED"])
	assert.Equal(t, int64(1), snap.FormOutcomes["login|success"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordFormOutcome("login", "error")
	assert.Empty(t, m.Snapshot().Requests)
}
