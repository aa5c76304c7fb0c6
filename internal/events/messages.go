package events

import "github.com/raceops/rewind/internal/yearly"

// Event types emitted by the derivation engine. One run emits any number
// of progress events followed by exactly one result or error event.
const (
	TypeYearlyProgress = "yearly:progress"
	TypeYearlyResult   = "yearly:result"
	TypeYearlyError    = "yearly:error"
)

// YearlyProgressEvent is the payload for yearly:progress events.
type YearlyProgressEvent struct {
	Player   string  `json:"player"`
	Year     int     `json:"year"`
	Progress float64 `json:"progress"` // 0-100, monotonically non-decreasing
}

// YearlyResultEvent is the terminal payload of a successful run.
type YearlyResultEvent struct {
	Data *yearly.Data `json:"data"`
}

// YearlyErrorEvent is the terminal payload of a failed run.
type YearlyErrorEvent struct {
	Player string `json:"player"`
	Year   int    `json:"year"`
	Error  string `json:"error"`
}
