package metrics

import (
	"sort"
	"sync"
	"time"
)

// EngineMetrics aggregates timing across derivation runs: one histogram
// for whole-run latency and one per named query step.
type EngineMetrics struct {
	runs  *Histogram
	steps map[string]*Histogram
	mu    sync.RWMutex
}

// NewEngineMetrics creates an empty metrics collector.
func NewEngineMetrics() *EngineMetrics {
	return &EngineMetrics{
		runs:  NewHistogram(1000),
		steps: make(map[string]*Histogram),
	}
}

// RecordRun records the duration of one complete derivation.
func (m *EngineMetrics) RecordRun(d time.Duration) {
	m.runs.Record(d)
}

// RecordStep records the duration of one named query step.
func (m *EngineMetrics) RecordStep(step string, d time.Duration) {
	m.mu.Lock()
	h, ok := m.steps[step]
	if !ok {
		h = NewHistogram(1000)
		m.steps[step] = h
	}
	m.mu.Unlock()

	h.Record(d)
}

// StepSummary is a per-step timing snapshot in milliseconds.
type StepSummary struct {
	Step  string  `json:"step"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean_ms"`
	P95   float64 `json:"p95_ms"`
	Max   float64 `json:"max_ms"`
}

// RunSummary is a whole-run timing snapshot in milliseconds.
type RunSummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean_ms"`
	P95   float64 `json:"p95_ms"`
	Max   float64 `json:"max_ms"`
}

// Snapshot returns current run and per-step summaries.
func (m *EngineMetrics) Snapshot() (RunSummary, []StepSummary) {
	run := RunSummary{
		Count: m.runs.Count(),
		Mean:  m.runs.Mean(),
		P95:   m.runs.Percentile(95),
		Max:   m.runs.Max(),
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	steps := make([]StepSummary, 0, len(m.steps))
	for name, h := range m.steps {
		steps = append(steps, StepSummary{
			Step:  name,
			Count: h.Count(),
			Mean:  h.Mean(),
			P95:   h.Percentile(95),
			Max:   h.Max(),
		})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Step < steps[j].Step })
	return run, steps
}
