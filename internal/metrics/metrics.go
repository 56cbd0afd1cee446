package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	TotalItemsProcessed int64
	DuplicatesFiltered  int64
	UnparseableDropped  int64
	StaleDropped        int64
	EnrichmentFailures  int64
	SourceFailures      int64
	CyclesCompleted     int64
	CyclesSkipped       int64

	// Timings
	LastCycleTime    time.Duration
	AverageCycleTime time.Duration
	TotalCycleTime   time.Duration

	// Status
	LastCycleAccepted int64
	LastRunTime       time.Time
	LastErrorTime     time.Time
	LastError         string
	IsHealthy         bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementItemsProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalItemsProcessed++
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) IncrementUnparseableDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnparseableDropped++
}

func (m *Metrics) IncrementStaleDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StaleDropped++
}

func (m *Metrics) IncrementEnrichmentFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnrichmentFailures++
}

func (m *Metrics) IncrementSourceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFailures++
}

func (m *Metrics) IncrementCyclesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CyclesSkipped++
}

func (m *Metrics) RecordCycle(accepted int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CyclesCompleted++
	m.LastCycleAccepted = int64(accepted)
	m.LastCycleTime = duration
	m.TotalCycleTime += duration
	m.AverageCycleTime = m.TotalCycleTime / time.Duration(m.CyclesCompleted)
	m.LastRunTime = time.Now()
	m.IsHealthy = true
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
		"total_items_processed": m.TotalItemsProcessed,
		"duplicates_filtered":   m.DuplicatesFiltered,
		"unparseable_dropped":   m.UnparseableDropped,
		"stale_dropped":         m.StaleDropped,
		"enrichment_failures":   m.EnrichmentFailures,
		"source_failures":       m.SourceFailures,
		"cycles_completed":      m.CyclesCompleted,
		"cycles_skipped":        m.CyclesSkipped,
		"last_cycle_accepted":   m.LastCycleAccepted,
		"last_cycle_time_ms":    m.LastCycleTime.Milliseconds(),
		"average_cycle_time_ms": m.AverageCycleTime.Milliseconds(),
		"last_run_time":         m.LastRunTime.Format(time.RFC3339),
		"last_error_time":       m.LastErrorTime.Format(time.RFC3339),
		"last_error":            m.LastError,
		"is_healthy":            m.IsHealthy,
	}
}
