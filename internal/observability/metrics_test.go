package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordAndSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/register", "POST", 200, 10*time.Millisecond)
	m.RecordRequest("/api/register", "POST", 200, 30*time.Millisecond)
	m.RecordError("/api/register", "POST", "CONFLICT")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/register|POST|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/register|POST|CONFLICT"])
	assert.InDelta(t, 20.0, snap.AvgLatencyMs["/api/register|POST|200"], 0.001)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	assert.Empty(t, m.Snapshot().Requests)
}
