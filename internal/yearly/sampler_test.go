package yearly

import (
	"testing"

	"github.com/raceops/rewind/internal/catalog"
)

func TestSamplePointHistoryForwardFill(t *testing.T) {
	history := []PointSample{
		{Timestamp: 100, Points: 10},
		{Timestamp: 500, Points: 25},
	}

	points := SamplePointHistory(history, 0, 1200)
	if len(points) != pointSamples+1 {
		t.Fatalf("got %d samples, want %d", len(points), pointSamples+1)
	}

	if points[0] != 0 {
		t.Errorf("sample at year start = %d, want 0 (no history yet)", points[0])
	}
	// Midpoint instant 600 sits after both history entries.
	if points[pointSamples/2] != 25 {
		t.Errorf("midpoint sample = %d, want 25", points[pointSamples/2])
	}
	if points[pointSamples] != 25 {
		t.Errorf("final sample = %d, want 25", points[pointSamples])
	}

	for i := 1; i < len(points); i++ {
		if points[i] < points[i-1] {
			t.Errorf("samples not monotonic at %d: %v", i, points)
		}
	}
}

func TestSamplePointHistoryExactInstant(t *testing.T) {
	// History entries landing exactly on a sample instant count for that
	// instant, not just for later ones. With a 1200-second span the
	// instants fall every 100 seconds, so both entries coincide.
	history := []PointSample{
		{Timestamp: 0, Points: 10},
		{Timestamp: 600, Points: 100},
	}

	points := SamplePointHistory(history, 0, 1200)
	if points[0] != 10 {
		t.Errorf("sample at year start = %d, want 10", points[0])
	}
	if points[pointSamples/2] != 100 {
		t.Errorf("sample at instant 600 = %d, want 100", points[pointSamples/2])
	}
	for i := pointSamples / 2; i <= pointSamples; i++ {
		if points[i] != 100 {
			t.Errorf("points[%d] = %d, want 100 at and after instant 600", i, points[i])
		}
	}
}

func TestSamplePointHistoryEmpty(t *testing.T) {
	points := SamplePointHistory(nil, 0, 1200)
	if len(points) != pointSamples+1 {
		t.Fatalf("got %d samples, want %d", len(points), pointSamples+1)
	}
	for i, p := range points {
		if p != 0 {
			t.Errorf("points[%d] = %d, want 0", i, p)
		}
	}
}

func TestBuildRadarFixedOrder(t *testing.T) {
	radar := BuildRadar(
		map[string]float64{"Novice": 120, "DDmaX": 60},
		map[string]float64{"Novice": 0.5},
	)

	if len(radar.Labels) != len(Categories) {
		t.Fatalf("got %d labels, want %d", len(radar.Labels), len(Categories))
	}
	for i, label := range Categories {
		if radar.Labels[i] != label {
			t.Errorf("labels[%d] = %q, want %q", i, radar.Labels[i], label)
		}
	}

	idx := func(name string) int {
		for i, label := range Categories {
			if label == name {
				return i
			}
		}
		t.Fatalf("category %q not found", name)
		return -1
	}

	if radar.Activity[idx("Novice")] != 120 {
		t.Errorf("Novice activity = %v, want 120", radar.Activity[idx("Novice")])
	}
	if radar.Activity[idx("DDmaX")] != 60 {
		t.Errorf("DDmaX activity = %v, want 60", radar.Activity[idx("DDmaX")])
	}
	if radar.Completion[idx("Novice")] != 0.5 {
		t.Errorf("Novice completion = %v, want 0.5", radar.Completion[idx("Novice")])
	}
	// Missing categories report zero.
	if radar.Activity[idx("Dummy")] != 0 || radar.Completion[idx("Dummy")] != 0 {
		t.Errorf("Dummy should be zero, got %v / %v",
			radar.Activity[idx("Dummy")], radar.Completion[idx("Dummy")])
	}
}

func TestSampleSlowFinishesSkipsBonusMaps(t *testing.T) {
	finishes := []Finish{
		{Map: "Marathon", Time: 9000},
		{Map: "Detour", Time: 8000},
		{Map: "Cruise", Time: 7000},
		{Map: "Uncharted", Time: 6000},
		{Map: "Breeze", Time: 5000},
	}
	lookup := map[string]catalog.Map{
		"Marathon": {Name: "Marathon"},
		"Detour":   {Name: "Detour", Tiles: []string{catalog.BonusTile}},
		"Cruise":   {Name: "Cruise"},
		"Breeze":   {Name: "Breeze"},
	}

	slow := SampleSlowFinishes(finishes, lookup, 4)
	want := []SlowFinish{
		{Map: "Marathon", Time: 9000},
		{Map: "Cruise", Time: 7000},
		{Map: "Uncharted", Time: 6000},
		{Map: "Breeze", Time: 5000},
	}
	if len(slow) != len(want) {
		t.Fatalf("got %+v, want %+v", slow, want)
	}
	for i := range want {
		if slow[i] != want[i] {
			t.Errorf("slow[%d] = %+v, want %+v", i, slow[i], want[i])
		}
	}
}

func TestSampleSlowFinishesLimit(t *testing.T) {
	finishes := []Finish{
		{Map: "a", Time: 3},
		{Map: "b", Time: 2},
		{Map: "c", Time: 1},
	}

	slow := SampleSlowFinishes(finishes, nil, 2)
	if len(slow) != 2 {
		t.Fatalf("got %d finishes, want 2", len(slow))
	}
}
