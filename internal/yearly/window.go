package yearly

// Window parameters. The neighborhood reaches 30 minutes before and 90
// minutes after the busiest aligned hour slice, so an unaligned 60-minute
// window can slide across the slice boundary in both directions.
const (
	windowSpan       = 3600
	neighborhoodLead = 1800
	neighborhoodTail = 5400
)

// BestWindow finds the 60-minute window covering the most events. Events
// must be chronologically sorted, each the first completion of a distinct
// map. The scan is a monotonic two-pointer pass; the first window reaching
// the maximum count wins, so earlier windows are preferred on ties.
// Returns the window start and the ordered maps inside it, or (0, nil)
// for an empty event list.
func BestWindow(events []WindowEvent) (int64, []string) {
	if len(events) == 0 {
		return 0, nil
	}

	var (
		left      int
		maxCount  int
		bestStart int64
	)

	for right := range events {
		for events[right].Timestamp-events[left].Timestamp > windowSpan {
			left++
		}

		if count := right - left + 1; count > maxCount {
			maxCount = count
			bestStart = events[left].Timestamp
		}
	}

	bestEnd := bestStart + windowSpan
	var maps []string
	for _, ev := range events {
		if ev.Timestamp >= bestStart && ev.Timestamp < bestEnd {
			maps = append(maps, ev.Map)
		}
	}

	return bestStart, maps
}

// SpanLanes assigns each finish interval a display lane, one lane per
// distinct map in order of first appearance by interval start.
func SpanLanes(intervals []FinishInterval) []WindowSpan {
	if len(intervals) == 0 {
		return nil
	}

	lanes := make(map[string]int)
	spans := make([]WindowSpan, 0, len(intervals))
	for _, iv := range intervals {
		lane, ok := lanes[iv.Map]
		if !ok {
			lane = len(lanes)
			lanes[iv.Map] = lane
		}
		spans = append(spans, WindowSpan{Start: iv.Start, End: iv.End, Lane: lane})
	}

	// Intervals arrive sorted by start; group them by lane for rendering.
	ordered := make([]WindowSpan, 0, len(spans))
	for lane := 0; lane < len(lanes); lane++ {
		for _, span := range spans {
			if span.Lane == lane {
				ordered = append(ordered, span)
			}
		}
	}

	return ordered
}
