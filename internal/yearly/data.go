package yearly

// Data is the engine's sole output: every statistic derived for one
// player's year. Pointer and slice fields are nil when the underlying
// query returned no rows; presentation must treat absence as "skip this
// card", never as an error.
type Data struct {
	Player   string `json:"player"`
	Year     int    `json:"year"`
	Timezone string `json:"timezone"`

	FirstFinish     *FirstFinish     `json:"first_finish,omitempty"`
	PointsThisYear  int              `json:"points_this_year"`
	PointsLastYear  int              `json:"points_last_year"`
	TopNewMap       *MapPoints       `json:"top_new_map,omitempty"`
	TotalFinishes   int              `json:"total_finishes"`
	BusiestHours    *HourRange       `json:"busiest_hours,omitempty"`
	BusiestMonth    *MonthCount      `json:"busiest_month,omitempty"`
	LateNight       *Finish          `json:"late_night,omitempty"`
	ReleaseCoverage *ReleaseCoverage `json:"release_coverage,omitempty"`
	TopCategory     *CategoryCount   `json:"top_category,omitempty"`
	MostFinished    *MapCount        `json:"most_finished,omitempty"`
	TopMaps         []MapCount       `json:"top_maps,omitempty"`
	Slowest         *Finish          `json:"slowest,omitempty"`
	Teammates       []Teammate       `json:"teammates,omitempty"`
	TeammateNames   []string         `json:"teammate_names,omitempty"`
	BiggestTeam     *BiggestTeam     `json:"biggest_team,omitempty"`
	ReleaseRecord   *ReleaseRecord   `json:"release_record,omitempty"`
	MapperMaps      []string         `json:"mapper_maps,omitempty"`
	RaceSeconds     float64          `json:"race_seconds"`
	TrackedSeconds  int64            `json:"tracked_seconds"`
	TopServer       *ServerUsage     `json:"top_server,omitempty"`
	FinishWindow    *FinishWindow    `json:"finish_window,omitempty"`
	Improvement     *Improvement     `json:"improvement,omitempty"`

	// Chart series, decoupled from any renderer.
	PointHistory []int        `json:"point_history,omitempty"`
	Radar        *RadarSeries `json:"radar,omitempty"`
	SlowFinishes []SlowFinish `json:"slow_finishes,omitempty"`
	WindowSpans  []WindowSpan `json:"window_spans,omitempty"`
}

// FirstFinish is the player's earliest recorded completion. Age is the
// distance from that completion to the end of the target year, in seconds.
type FirstFinish struct {
	Map       string `json:"map"`
	Timestamp int64  `json:"timestamp"`
	Age       int64  `json:"age"`
}

// MapPoints pairs a map with its catalog point value.
type MapPoints struct {
	Map    string `json:"map"`
	Points int    `json:"points"`
}

// HourRange is a named hour-of-day bucket with its completion count.
type HourRange struct {
	Name     string `json:"name"`
	Finishes int    `json:"finishes"`
}

// MonthCount is a calendar month (1-12) with its completion count.
type MonthCount struct {
	Month    int `json:"month"`
	Finishes int `json:"finishes"`
}

// Finish is one completion with its duration and instant.
type Finish struct {
	Map       string  `json:"map"`
	Time      float64 `json:"time"`
	Timestamp int64   `json:"timestamp"`
}

// ReleaseCoverage summarizes the player's finishes on maps released in the
// target year.
type ReleaseCoverage struct {
	Released    int    `json:"released"`
	Finished    int    `json:"finished"`
	TopMap      string `json:"top_map,omitempty"`
	TopFinishes int    `json:"top_finishes"`
}

// CategoryCount pairs a map category with a completion count.
type CategoryCount struct {
	Category string `json:"category"`
	Finishes int    `json:"finishes"`
}

// MapCount pairs a map with a completion count.
type MapCount struct {
	Map   string `json:"map"`
	Count int    `json:"count"`
}

// Teammate is a co-player with the number of shared team completions.
type Teammate struct {
	Name  string `json:"name"`
	Races int    `json:"races"`
}

// BiggestTeam is the largest single team completion event of the year.
type BiggestTeam struct {
	Size      int      `json:"size"`
	Map       string   `json:"map"`
	Members   []string `json:"members"`
	Timestamp int64    `json:"timestamp"`
}

// ReleaseRecord is the completion closest to its map's release.
type ReleaseRecord struct {
	Map                 string `json:"map"`
	SecondsAfterRelease int64  `json:"seconds_after_release"`
}

// ServerUsage is the most-used server with a summary of the rest.
type ServerUsage struct {
	Server   string `json:"server"`
	Finishes int    `json:"finishes"`
	Others   string `json:"others,omitempty"`
}

// FinishWindow is the busiest 60-minute map-finishing window.
type FinishWindow struct {
	Start int64    `json:"start"`
	Count int      `json:"count"`
	Maps  []string `json:"maps"`
}

// Improvement is the biggest relative time improvement on a map the player
// had already completed before the target year.
type Improvement struct {
	Map               string  `json:"map"`
	BestTime          float64 `json:"best_time"`
	Delta             float64 `json:"delta"`
	Timestamp         int64   `json:"timestamp"`
	PreviousTimestamp int64   `json:"previous_timestamp"`
}

// RadarSeries carries per-category activity time and completion ratio in
// a fixed category order for radar display. Activity is raw seconds; the
// renderer normalizes by the series maximum.
type RadarSeries struct {
	Labels     []string  `json:"labels"`
	Activity   []float64 `json:"activity"`
	Completion []float64 `json:"completion"`
}

// SlowFinish is one bar of the slow-completion chart.
type SlowFinish struct {
	Map  string  `json:"map"`
	Time float64 `json:"time"`
}

// WindowSpan is one finish interval inside the busiest window, assigned a
// display lane per distinct map.
type WindowSpan struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
	Lane  int   `json:"lane"`
}
