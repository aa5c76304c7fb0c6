package yearly

import "github.com/raceops/rewind/internal/catalog"

// pointSamples instants are spread across the year; 13 points give the
// chart a value at both boundaries plus one per month.
const pointSamples = 12

// Categories is the fixed, ordered label list for the radar chart.
var Categories = []string{
	"Oldschool",
	"DDmaX",
	"Race",
	"Novice",
	"Moderate",
	"Brutal",
	"Insane",
	"Solo",
	"Dummy",
}

// SamplePointHistory forward-fills the cumulative point total at 13 evenly
// spaced instants across [yearStart, yearEnd]: each instant reports the
// last total recorded at or before it. Instants before the first recorded
// sample report 0. The history must be sorted by timestamp.
func SamplePointHistory(history []PointSample, yearStart, yearEnd int64) []int {
	points := make([]int, 0, pointSamples+1)

	pointer := 0
	for sample := 0; sample <= pointSamples; sample++ {
		at := yearStart + (yearEnd-yearStart)*int64(sample)/pointSamples
		for pointer < len(history) && history[pointer].Timestamp <= at {
			pointer++
		}
		if pointer > 0 {
			points = append(points, history[pointer-1].Points)
		} else {
			points = append(points, 0)
		}
	}

	return points
}

// BuildRadar assembles the per-category activity/completion series in the
// fixed category order. Missing categories report zero.
func BuildRadar(times map[string]float64, completion map[string]float64) *RadarSeries {
	radar := &RadarSeries{
		Labels:     Categories,
		Activity:   make([]float64, len(Categories)),
		Completion: make([]float64, len(Categories)),
	}
	for i, category := range Categories {
		radar.Activity[i] = times[category]
		radar.Completion[i] = completion[category]
	}
	return radar
}

// SampleSlowFinishes keeps up to limit of the longest completions,
// skipping bonus-flagged maps. Finishes must already be sorted by duration
// descending; maps absent from the catalog are kept.
func SampleSlowFinishes(finishes []Finish, lookup map[string]catalog.Map, limit int) []SlowFinish {
	var slow []SlowFinish
	for _, f := range finishes {
		if len(slow) == limit {
			break
		}
		if m, ok := lookup[f.Map]; ok && m.HasBonus() {
			continue
		}
		slow = append(slow, SlowFinish{Map: f.Map, Time: f.Time})
	}
	return slow
}
