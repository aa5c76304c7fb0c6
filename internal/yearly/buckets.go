package yearly

import (
	"sort"
	"time"
)

// hourBucket is a named, inclusive hour-of-day range. Hour 8 falls in no
// bucket; completions there count toward the month totals only.
type hourBucket struct {
	from, to int
	name     string
}

// hourBuckets in presentation order; ties on equal totals keep this order,
// midnight first.
var hourBuckets = []hourBucket{
	{0, 3, "midnight"},
	{4, 7, "dawn"},
	{9, 12, "morning"},
	{13, 16, "afternoon"},
	{17, 20, "evening"},
	{21, 24, "night"},
}

// FoldSlices folds aligned hour slices into the named hour-of-day buckets
// and calendar months of the player's zone, and returns the busiest of
// each. Returns nils for an empty slice list.
func FoldSlices(slices []Slice, loc *time.Location) (*HourRange, *MonthCount) {
	if len(slices) == 0 {
		return nil, nil
	}

	bucketTotals := make([]int, len(hourBuckets))
	var monthTotals [12]int

	for _, slice := range slices {
		local := time.Unix(slice.Start, 0).In(loc)
		hour := local.Hour()
		for i, bucket := range hourBuckets {
			if bucket.from <= hour && hour <= bucket.to {
				bucketTotals[i] += slice.Count
				break
			}
		}
		monthTotals[int(local.Month())-1] += slice.Count
	}

	bucketOrder := make([]int, len(hourBuckets))
	for i := range bucketOrder {
		bucketOrder[i] = i
	}
	sort.SliceStable(bucketOrder, func(a, b int) bool {
		return bucketTotals[bucketOrder[a]] > bucketTotals[bucketOrder[b]]
	})

	best := bucketOrder[0]
	busiestHours := &HourRange{
		Name:     hourBuckets[best].name,
		Finishes: bucketTotals[best],
	}

	bestMonth := 0
	for month := 1; month < 12; month++ {
		if monthTotals[month] > monthTotals[bestMonth] {
			bestMonth = month
		}
	}
	busiestMonth := &MonthCount{
		Month:    bestMonth + 1,
		Finishes: monthTotals[bestMonth],
	}

	return busiestHours, busiestMonth
}
