package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/raceops/rewind/internal/yearly"
)

func sampleData() *yearly.Data {
	return &yearly.Data{
		Player:         "Hazel",
		Year:           2023,
		Timezone:       "UTC",
		PointsThisYear: 35,
		PointsLastYear: 20,
		TotalFinishes:  4,
		RaceSeconds:    4515.5,
		FirstFinish: &yearly.FirstFinish{
			Map:       "Luna",
			Timestamp: 1654041600,
			Age:       50025599,
		},
		MostFinished: &yearly.MapCount{Map: "Sunny", Count: 2},
		Slowest:      &yearly.Finish{Map: "Peak", Time: 4000, Timestamp: 1686873600},
		Teammates: []yearly.Teammate{
			{Name: "Ivy", Races: 2},
			{Name: "Juno", Races: 1},
		},
		Improvement: &yearly.Improvement{Map: "Luna", BestTime: 300, Delta: 300},
	}
}

func TestBuildHighlightRows(t *testing.T) {
	rows := BuildHighlightRows(sampleData())

	stats := make([]string, len(rows))
	for i, r := range rows {
		stats[i] = r.Statistic
	}

	want := []string{
		"first_finish",
		"points_this_year",
		"points_last_year",
		"total_finishes",
		"most_finished_map",
		"slowest_finish",
		"teammate",
		"teammate",
		"race_seconds",
		"biggest_improvement",
	}
	if len(stats) != len(want) {
		t.Fatalf("got %d rows %v, want %d", len(stats), stats, len(want))
	}

	got := map[string]bool{}
	for _, s := range stats {
		got[s] = true
	}
	for _, s := range want {
		if !got[s] {
			t.Errorf("missing statistic %q", s)
		}
	}

	// Spot-check ordering and content.
	if stats[0] != "first_finish" {
		t.Errorf("first row = %q, want first_finish", stats[0])
	}
	if rows[0].Detail != "Luna" {
		t.Errorf("first_finish detail = %q, want Luna", rows[0].Detail)
	}
	last := rows[len(rows)-1]
	if last.Statistic != "biggest_improvement" {
		t.Errorf("last row = %q, want biggest_improvement", last.Statistic)
	}
	if !strings.HasPrefix(last.Value, "-") {
		t.Errorf("improvement value = %q, want leading minus", last.Value)
	}
}

func TestBuildHighlightRowsAbsentFields(t *testing.T) {
	rows := BuildHighlightRows(&yearly.Data{Player: "Hazel", Year: 2023})

	for _, r := range rows {
		switch r.Statistic {
		case "points_this_year", "points_last_year", "total_finishes", "race_seconds":
		default:
			t.Errorf("unexpected row %q for empty record", r.Statistic)
		}
	}
	if len(rows) != 4 {
		t.Errorf("got %d rows, want 4", len(rows))
	}
}

func TestWriteDataCSVViaWriter(t *testing.T) {
	var buf bytes.Buffer
	rows := BuildHighlightRows(sampleData())

	if err := ExportToWriter(&buf, FormatCSV, rows, false); err != nil {
		t.Fatalf("ExportToWriter failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "statistic,value,detail") {
		t.Errorf("header missing: %q", out)
	}
	if !strings.Contains(out, "slowest_finish,1h6m40s,Peak") {
		t.Errorf("slowest_finish row missing: %q", out)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatUnix(1672531200); got != "2023-01-01T00:00:00Z" {
		t.Errorf("formatUnix = %q", got)
	}
	if got := formatDuration(90.4); got != "1m30s" {
		t.Errorf("formatDuration = %q", got)
	}
}
