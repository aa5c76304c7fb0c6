package yearly

import "testing"

func minuteEvents(minutes ...int64) []WindowEvent {
	events := make([]WindowEvent, len(minutes))
	for i, m := range minutes {
		events[i] = WindowEvent{Map: string(rune('a' + i)), Timestamp: m * 60}
	}
	return events
}

func TestBestWindow(t *testing.T) {
	start, maps := BestWindow(minuteEvents(0, 10, 20, 50, 70, 90))
	if start != 0 {
		t.Errorf("start = %d, want 0", start)
	}
	if len(maps) != 4 {
		t.Errorf("maps = %v, want 4 entries", maps)
	}
}

func TestBestWindowPrefersEarlierOnTie(t *testing.T) {
	// Two disjoint pairs; the earlier one must win.
	start, maps := BestWindow(minuteEvents(0, 30, 120, 150))
	if start != 0 {
		t.Errorf("start = %d, want 0", start)
	}
	if len(maps) != 2 {
		t.Errorf("maps = %v, want 2 entries", maps)
	}
}

func TestBestWindowEmpty(t *testing.T) {
	start, maps := BestWindow(nil)
	if start != 0 || maps != nil {
		t.Errorf("got (%d, %v), want (0, nil)", start, maps)
	}
}

func TestBestWindowSingleEvent(t *testing.T) {
	start, maps := BestWindow([]WindowEvent{{Map: "solo", Timestamp: 4200}})
	if start != 4200 {
		t.Errorf("start = %d, want 4200", start)
	}
	if len(maps) != 1 || maps[0] != "solo" {
		t.Errorf("maps = %v, want [solo]", maps)
	}
}

func TestSpanLanes(t *testing.T) {
	intervals := []FinishInterval{
		{Map: "a", Start: 0, End: 100},
		{Map: "b", Start: 50, End: 150},
		{Map: "a", Start: 200, End: 300},
	}

	spans := SpanLanes(intervals)
	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 3", len(spans))
	}

	// Lane 0 belongs to "a" (first appearance), lane 1 to "b"; output is
	// grouped by lane.
	want := []WindowSpan{
		{Start: 0, End: 100, Lane: 0},
		{Start: 200, End: 300, Lane: 0},
		{Start: 50, End: 150, Lane: 1},
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("spans[%d] = %+v, want %+v", i, spans[i], want[i])
		}
	}
}

func TestSpanLanesEmpty(t *testing.T) {
	if spans := SpanLanes(nil); spans != nil {
		t.Errorf("got %v, want nil", spans)
	}
}
