package export

import (
	"fmt"
	"time"

	"github.com/raceops/rewind/internal/yearly"
)

// HighlightRow is one flattened statistic for tabular export. Detail is
// free-form context like the map name or the teammate list.
type HighlightRow struct {
	Statistic string `csv:"statistic"`
	Value     string `csv:"value"`
	Detail    string `csv:"detail"`
}

// BuildHighlightRows flattens the derived record into one row per present
// statistic, in the engine's derivation order. Absent fields produce no
// row.
func BuildHighlightRows(data *yearly.Data) []HighlightRow {
	var rows []HighlightRow

	add := func(stat, value, detail string) {
		rows = append(rows, HighlightRow{Statistic: stat, Value: value, Detail: detail})
	}

	if f := data.FirstFinish; f != nil {
		add("first_finish", formatUnix(f.Timestamp), f.Map)
	}
	add("points_this_year", fmt.Sprintf("%d", data.PointsThisYear), "")
	add("points_last_year", fmt.Sprintf("%d", data.PointsLastYear), "")
	if m := data.TopNewMap; m != nil {
		add("top_new_map", fmt.Sprintf("%d points", m.Points), m.Map)
	}
	add("total_finishes", fmt.Sprintf("%d", data.TotalFinishes), "")
	if h := data.BusiestHours; h != nil {
		add("busiest_hours", fmt.Sprintf("%d finishes", h.Finishes), h.Name)
	}
	if m := data.BusiestMonth; m != nil {
		add("busiest_month", fmt.Sprintf("%d finishes", m.Finishes), time.Month(m.Month).String())
	}
	if l := data.LateNight; l != nil {
		add("late_night_finish", formatUnix(l.Timestamp), l.Map)
	}
	if c := data.ReleaseCoverage; c != nil {
		add("release_coverage", fmt.Sprintf("%d of %d", c.Finished, c.Released), c.TopMap)
	}
	if c := data.TopCategory; c != nil {
		add("top_category", fmt.Sprintf("%d finishes", c.Finishes), c.Category)
	}
	if m := data.MostFinished; m != nil {
		add("most_finished_map", fmt.Sprintf("%d finishes", m.Count), m.Map)
	}
	if s := data.Slowest; s != nil {
		add("slowest_finish", formatDuration(s.Time), s.Map)
	}
	for _, t := range data.Teammates {
		add("teammate", fmt.Sprintf("%d races", t.Races), t.Name)
	}
	if t := data.BiggestTeam; t != nil {
		add("biggest_team", fmt.Sprintf("%d players", t.Size), t.Map)
	}
	if r := data.ReleaseRecord; r != nil {
		add("release_record", formatDuration(float64(r.SecondsAfterRelease)), r.Map)
	}
	add("race_seconds", formatDuration(data.RaceSeconds), "")
	if data.TrackedSeconds > 0 {
		add("tracked_seconds", formatDuration(float64(data.TrackedSeconds)), "")
	}
	if s := data.TopServer; s != nil {
		add("top_server", fmt.Sprintf("%d finishes", s.Finishes), s.Server)
	}
	if w := data.FinishWindow; w != nil {
		add("finish_window", fmt.Sprintf("%d maps", w.Count), formatUnix(w.Start))
	}
	if i := data.Improvement; i != nil {
		add("biggest_improvement", fmt.Sprintf("-%s", formatDuration(i.Delta)), i.Map)
	}

	return rows
}

// WriteData writes the full record as JSON or its highlight rows as CSV.
func WriteData(data *yearly.Data, opts Options) error {
	exporter := NewExporter(opts)
	if opts.Format == FormatCSV {
		return exporter.Export(BuildHighlightRows(data))
	}
	return exporter.Export(data)
}

func formatUnix(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	return d.Round(time.Second).String()
}
