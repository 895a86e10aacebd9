package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/deusflow/aidigest/internal/logger"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.RecordCollection(3, 1, 30, 4, 2, 24)
	m.RecordRelevant(5)
	m.IncrementFallback()
	m.IncrementEmailsSent()
	m.RecordProcessingTime(1500 * time.Millisecond)

	stats := m.GetStats()
	assert.Equal(t, int64(3), stats["sources_fetched"])
	assert.Equal(t, int64(1), stats["sources_failed"])
	assert.Equal(t, int64(2), stats["duplicates_filtered"])
	assert.Equal(t, int64(5), stats["relevant_articles"])
	assert.Equal(t, int64(1), stats["fallback_digests"])
	assert.Equal(t, int64(0), stats["generated_digests"])
	assert.Equal(t, int64(1500), stats["last_processing_time_ms"])
	assert.Equal(t, true, stats["is_healthy"])
}

func TestMetrics_SetError(t *testing.T) {
	m := New()
	m.SetError("smtp auth: 535")

	stats := m.GetStats()
	assert.Equal(t, false, stats["is_healthy"])
	assert.Equal(t, "smtp auth: 535", stats["last_error"])
}

func TestMetrics_Log(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(false, &buf)

	m := New()
	m.RecordRelevant(2)
	m.Log()

	assert.Contains(t, buf.String(), "run statistics")
	assert.Contains(t, buf.String(), "relevant_articles=2")
}
