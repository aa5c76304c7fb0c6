package yearly

import (
	"fmt"
	"time"
	// The engine's year arithmetic depends on IANA zone data regardless of
	// what the host has installed.
	_ "time/tzdata"
)

// ReferenceZone is the fixed zone map releases are recorded in. The
// release-coverage query uses this zone for its lower bound while the
// player's zone bounds the finishes, mirroring how the upstream database
// stamps release dates.
const ReferenceZone = "Europe/Berlin"

// Bounds holds the year-boundary instants for one derivation run, all as
// UTC unix seconds. End values are inclusive (last second of the year).
type Bounds struct {
	PrevYearStart int64
	PrevYearEnd   int64
	YearStart     int64
	YearEnd       int64

	// RefYearStart/RefYearEnd bound the same year in ReferenceZone.
	RefYearStart int64
	RefYearEnd   int64

	// Offset is the signed HH:MM UTC offset of the player's zone at year
	// end, for use inside SQLite's UTC-only date functions.
	Offset string

	loc *time.Location
}

// YearBounds computes the boundary instants for year in the given IANA
// timezone. Returns ErrBadTimezone for an unrecognized identifier.
func YearBounds(year int, tz string) (Bounds, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Bounds{}, fmt.Errorf("%w: %q", ErrBadTimezone, tz)
	}

	ref, err := time.LoadLocation(ReferenceZone)
	if err != nil {
		return Bounds{}, fmt.Errorf("%w: %q", ErrBadTimezone, ReferenceZone)
	}

	startOf := func(y int, l *time.Location) int64 {
		return time.Date(y, time.January, 1, 0, 0, 0, 0, l).Unix()
	}

	b := Bounds{
		PrevYearStart: startOf(year-1, loc),
		PrevYearEnd:   startOf(year, loc) - 1,
		YearStart:     startOf(year, loc),
		YearEnd:       startOf(year+1, loc) - 1,
		RefYearStart:  startOf(year, ref),
		RefYearEnd:    startOf(year+1, ref) - 1,
		loc:           loc,
	}
	b.Offset = UTCOffsetString(loc, time.Unix(b.YearEnd, 0))

	return b, nil
}

// Location returns the player's zone the bounds were computed in.
func (b Bounds) Location() *time.Location {
	return b.loc
}

// UTCOffsetString formats the UTC offset of loc at the given instant as
// [+-]HH:MM. A zero offset renders as -00:00, matching the predicate
// format the store queries were written against.
func UTCOffsetString(loc *time.Location, at time.Time) string {
	_, offsetSeconds := at.In(loc).Zone()
	offsetMinutes := offsetSeconds / 60

	sign := "+"
	if offsetMinutes <= 0 {
		sign = "-"
		offsetMinutes = -offsetMinutes
	}

	return fmt.Sprintf("%s%02d:%02d", sign, offsetMinutes/60, offsetMinutes%60)
}
