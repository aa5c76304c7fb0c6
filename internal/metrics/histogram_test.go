package metrics

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestHistogramEmpty(t *testing.T) {
	h := NewHistogram(100)
	if h.Count() != 0 {
		t.Errorf("Count = %d, want 0", h.Count())
	}
	if h.Mean() != 0 || h.Percentile(95) != 0 || h.Max() != 0 {
		t.Errorf("empty histogram: mean %v p95 %v max %v, want all 0",
			h.Mean(), h.Percentile(95), h.Max())
	}
}

func TestHistogramStats(t *testing.T) {
	h := NewHistogram(100)
	for _, ms := range []int{10, 20, 30, 40} {
		h.Record(time.Duration(ms) * time.Millisecond)
	}

	if h.Count() != 4 {
		t.Fatalf("Count = %d, want 4", h.Count())
	}
	if !almostEqual(h.Mean(), 25) {
		t.Errorf("Mean = %v, want 25", h.Mean())
	}
	if !almostEqual(h.Max(), 40) {
		t.Errorf("Max = %v, want 40", h.Max())
	}
	// Median of 10,20,30,40 interpolates between the middle samples.
	if !almostEqual(h.Percentile(50), 25) {
		t.Errorf("Percentile(50) = %v, want 25", h.Percentile(50))
	}
	if !almostEqual(h.Percentile(100), 40) {
		t.Errorf("Percentile(100) = %v, want 40", h.Percentile(100))
	}
}

func TestHistogramTrimsOldSamples(t *testing.T) {
	h := NewHistogram(10)
	for i := 0; i < 11; i++ {
		h.Record(time.Millisecond)
	}
	if h.Count() != 9 {
		t.Errorf("Count after trim = %d, want 9", h.Count())
	}
}

func TestHistogramReset(t *testing.T) {
	h := NewHistogram(100)
	h.Record(time.Millisecond)
	h.Reset()
	if h.Count() != 0 {
		t.Errorf("Count after Reset = %d, want 0", h.Count())
	}
}

func TestEngineMetricsSnapshot(t *testing.T) {
	m := NewEngineMetrics()
	m.RecordRun(100 * time.Millisecond)
	m.RecordRun(200 * time.Millisecond)
	m.RecordStep("points_this_year", 10*time.Millisecond)
	m.RecordStep("first_finish", 5*time.Millisecond)
	m.RecordStep("first_finish", 15*time.Millisecond)

	run, steps := m.Snapshot()
	if run.Count != 2 {
		t.Errorf("run count = %d, want 2", run.Count)
	}
	if !almostEqual(run.Mean, 150) {
		t.Errorf("run mean = %v, want 150", run.Mean)
	}

	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(steps))
	}
	// Steps come back sorted by name.
	if steps[0].Step != "first_finish" || steps[1].Step != "points_this_year" {
		t.Errorf("step order = %q, %q", steps[0].Step, steps[1].Step)
	}
	if steps[0].Count != 2 || !almostEqual(steps[0].Mean, 10) {
		t.Errorf("first_finish summary = %+v", steps[0])
	}
}
