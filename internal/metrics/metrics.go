package metrics

import (
	"sync"
	"time"

	"github.com/deusflow/aidigest/internal/logger"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	SourcesFetched     int64
	SourcesFailed      int64
	RawEntries         int64
	StaleSkipped       int64
	DuplicatesFiltered int64
	ArticlesCollected  int64
	RelevantArticles   int64
	GeneratedDigests   int64
	FallbackDigests    int64
	EmailsSent         int64
	EmailsFailed       int64

	// Timings
	LastProcessingTime time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) RecordCollection(ok, failed, raw, stale, duplicates, collected int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFetched += int64(ok)
	m.SourcesFailed += int64(failed)
	m.RawEntries += int64(raw)
	m.StaleSkipped += int64(stale)
	m.DuplicatesFiltered += int64(duplicates)
	m.ArticlesCollected += int64(collected)
}

func (m *Metrics) RecordRelevant(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RelevantArticles += int64(n)
}

func (m *Metrics) IncrementGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GeneratedDigests++
}

func (m *Metrics) IncrementFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackDigests++
}

func (m *Metrics) IncrementEmailsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsSent++
}

func (m *Metrics) IncrementEmailsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsFailed++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastProcessingTime = duration
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"sources_fetched":         m.SourcesFetched,
		"sources_failed":          m.SourcesFailed,
		"raw_entries":             m.RawEntries,
		"stale_skipped":           m.StaleSkipped,
		"duplicates_filtered":     m.DuplicatesFiltered,
		"articles_collected":      m.ArticlesCollected,
		"relevant_articles":       m.RelevantArticles,
		"generated_digests":       m.GeneratedDigests,
		"fallback_digests":        m.FallbackDigests,
		"emails_sent":             m.EmailsSent,
		"emails_failed":           m.EmailsFailed,
		"last_processing_time_ms": m.LastProcessingTime.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}

// Log writes the run statistics as one structured line.
func (m *Metrics) Log() {
	stats := m.GetStats()
	args := make([]any, 0, len(stats)*2)
	for _, key := range statKeys {
		args = append(args, key, stats[key])
	}
	logger.Info("run statistics", args...)
}

var statKeys = []string{
	"sources_fetched", "sources_failed", "raw_entries", "stale_skipped",
	"duplicates_filtered", "articles_collected", "relevant_articles",
	"generated_digests", "fallback_digests", "emails_sent", "emails_failed",
	"last_processing_time_ms", "last_error", "is_healthy",
}
