package yearly

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// teamSeparator joins member names inside GROUP_CONCAT. It cannot appear
// in a player name.
const teamSeparator = "\x03"

// All queries run strictly read-only against the loaded store. Ties on
// equal aggregate values are broken lexicographically (map, name, server
// or type ascending) so results are deterministic across store builds.

// FirstFinish returns the earliest completion at or before yearEnd, with
// its age relative to yearEnd.
func (s *Store) FirstFinish(ctx context.Context, yearEnd int64) (*FirstFinish, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT Map, Timestamp, ? - Timestamp
		FROM race WHERE Timestamp <= ?
		ORDER BY Timestamp ASC, Map ASC LIMIT 1`,
		yearEnd, yearEnd)

	var ff FirstFinish
	if err := row.Scan(&ff.Map, &ff.Timestamp, &ff.Age); err != nil {
		return nil, noRows(err, "first finish")
	}
	return &ff, nil
}

// PointsBefore sums catalog point values over maps with at least one
// completion at or before cutoff. Grouping first avoids double counting
// repeat completions.
func (s *Store) PointsBefore(ctx context.Context, cutoff int64) (int, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(Points), 0) FROM (
			SELECT maps.Map, maps.Points
			FROM maps JOIN race ON race.Map = maps.Map
			WHERE race.Timestamp <= ?
			GROUP BY maps.Map
		)`, cutoff)

	var points int
	if err := row.Scan(&points); err != nil {
		return 0, fmt.Errorf("points query failed: %w", err)
	}
	return points, nil
}

// TopNewMap returns the highest-point map completed this year that was
// unknown by the end of last year.
func (s *Store) TopNewMap(ctx context.Context, prevYearEnd, yearStart, yearEnd int64) (*MapPoints, error) {
	row := s.db.QueryRowContext(ctx, `
		WITH lastYearAllMaps AS (
			SELECT maps.Map, maps.Points FROM maps JOIN race ON race.Map = maps.Map
			WHERE race.Timestamp <= ? GROUP BY maps.Map
		),
		thisYearMaps AS (
			SELECT maps.Map, maps.Points FROM maps JOIN race ON race.Map = maps.Map
			WHERE race.Timestamp >= ? AND race.Timestamp <= ? GROUP BY maps.Map
		)
		SELECT ty.Map, ty.Points
		FROM thisYearMaps ty
		LEFT JOIN lastYearAllMaps ly ON ty.Map = ly.Map
		WHERE ly.Map IS NULL
		ORDER BY ty.Points DESC, ty.Map ASC LIMIT 1`,
		prevYearEnd, yearStart, yearEnd)

	var mp MapPoints
	if err := row.Scan(&mp.Map, &mp.Points); err != nil {
		return nil, noRows(err, "top new map")
	}
	return &mp, nil
}

// CountFinishes counts completions inside [start, end].
func (s *Store) CountFinishes(ctx context.Context, start, end int64) (int, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM race WHERE Timestamp >= ? AND Timestamp <= ?`, start, end)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("finish count query failed: %w", err)
	}
	return count, nil
}

// Slice is one aligned 3600-second bucket with a completion count.
type Slice struct {
	Start int64
	Count int
}

// HourlySlices groups the year's completions into aligned hour buckets,
// most active first.
func (s *Store) HourlySlices(ctx context.Context, start, end int64) ([]Slice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT (Timestamp / 3600) * 3600 AS Slice, COUNT(*) AS Cnt
		FROM race WHERE Timestamp >= ? AND Timestamp <= ?
		GROUP BY Slice ORDER BY Cnt DESC, Slice ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("hourly slices query failed: %w", err)
	}
	defer rows.Close()

	var slices []Slice
	for rows.Next() {
		var sl Slice
		if err := rows.Scan(&sl.Start, &sl.Count); err != nil {
			return nil, fmt.Errorf("failed to scan slice: %w", err)
		}
		slices = append(slices, sl)
	}
	return slices, rows.Err()
}

// LateNight returns the longest completion that ran into the small hours
// of the player's local day: either it finished before 05:00 having
// started before midnight, or it finished before 08:00 after a run of up
// to 12 hours reaching back past a sane bedtime. Zero-point maps are
// excluded. The offset string shifts SQLite's UTC-only date functions into
// the player's zone.
func (s *Store) LateNight(ctx context.Context, start, end int64, offset string) (*Finish, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT r.Map, r.Time, r.Timestamp FROM maps m JOIN (
			SELECT Map, Time, Timestamp FROM race WHERE (
				(time(Timestamp, 'unixepoch', ?1) < '05:00' AND Time <= CAST(strftime('%M', datetime(Timestamp, 'unixepoch', ?1)) AS INT) * 60 + CAST(strftime('%H', datetime(Timestamp, 'unixepoch', ?1)) AS INT) * 3600 + 7200) OR
				(time(Timestamp, 'unixepoch', ?1) < '08:00' AND Time <= 12 * 3600 AND Time >= CAST(strftime('%H', datetime(Timestamp, 'unixepoch', ?1)) AS INT) * 1800)
			)
			AND Timestamp >= ?2 AND Timestamp <= ?3
		) r ON m.Map = r.Map AND m.Points > 0
		ORDER BY r.Time DESC, r.Timestamp ASC LIMIT 1`,
		offset, start, end)

	var f Finish
	if err := row.Scan(&f.Map, &f.Time, &f.Timestamp); err != nil {
		return nil, noRows(err, "late night finish")
	}
	return &f, nil
}

// ReleaseCoverageRows returns every point-granting map released inside the
// reference-zone year window with the player's finish count on it, most
// finished first. Unfinished maps appear with a zero count. The release
// window is bounded in the reference zone while finishes run to the
// player's year end; the asymmetry mirrors how releases are stamped
// upstream.
func (s *Store) ReleaseCoverageRows(ctx context.Context, refStart, refEnd, yearEnd int64) ([]MapCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH thisYearMaps AS (
			SELECT Type, Map FROM maps
			WHERE Timestamp >= ?1 AND Timestamp <= ?2 AND Points > 0
		)
		SELECT thisYearMaps.Map, COUNT(race.Map) AS Finishes
		FROM race RIGHT JOIN thisYearMaps
			ON race.Map = thisYearMaps.Map AND Timestamp >= ?1 AND Timestamp <= ?3
		GROUP BY thisYearMaps.Map
		ORDER BY Finishes DESC, thisYearMaps.Map ASC`,
		refStart, refEnd, yearEnd)
	if err != nil {
		return nil, fmt.Errorf("release coverage query failed: %w", err)
	}
	defer rows.Close()

	var coverage []MapCount
	for rows.Next() {
		var mc MapCount
		if err := rows.Scan(&mc.Map, &mc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan coverage row: %w", err)
		}
		coverage = append(coverage, mc)
	}
	return coverage, rows.Err()
}

// ReleaseRecord returns the completion closest after its map's release,
// restricted to maps released inside the year window.
func (s *Store) ReleaseRecord(ctx context.Context, start, end int64) (*ReleaseRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT m.Map, r.Timestamp - m.Timestamp AS TimeDiff
		FROM maps m JOIN race r
			ON m.Map = r.Map AND m.Timestamp >= ? AND m.Timestamp <= ?
		WHERE r.Timestamp >= m.Timestamp
		ORDER BY TimeDiff ASC, m.Map ASC LIMIT 1`,
		start, end)

	var rr ReleaseRecord
	if err := row.Scan(&rr.Map, &rr.SecondsAfterRelease); err != nil {
		return nil, noRows(err, "release record")
	}
	return &rr, nil
}

// TopCategory returns the map category with the most completions in year.
func (s *Store) TopCategory(ctx context.Context, start, end int64) (*CategoryCount, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT m.Type, COUNT(r.Map) AS Finishes FROM maps m JOIN (
			SELECT Map FROM race WHERE Timestamp >= ? AND Timestamp <= ?
		) r ON m.Map = r.Map
		GROUP BY m.Type ORDER BY Finishes DESC, m.Type ASC LIMIT 1`,
		start, end)

	var cc CategoryCount
	if err := row.Scan(&cc.Category, &cc.Finishes); err != nil {
		return nil, noRows(err, "top category")
	}
	return &cc, nil
}

// TopMaps returns the most finished point-granting maps of the year,
// up to limit.
func (s *Store) TopMaps(ctx context.Context, start, end int64, limit int) ([]MapCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT race.Map, COUNT(race.Map) AS Num
		FROM race JOIN maps ON race.Map = maps.Map
		WHERE race.Timestamp >= ? AND race.Timestamp <= ? AND Points > 0
		GROUP BY race.Map ORDER BY Num DESC, race.Map ASC LIMIT ?`,
		start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("top maps query failed: %w", err)
	}
	defer rows.Close()

	var top []MapCount
	for rows.Next() {
		var mc MapCount
		if err := rows.Scan(&mc.Map, &mc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan map count: %w", err)
		}
		top = append(top, mc)
	}
	return top, rows.Err()
}

// LongestFinishes returns the year's point-granting completions ordered by
// duration descending.
func (s *Store) LongestFinishes(ctx context.Context, start, end int64) ([]Finish, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.Map, r.Time, r.Timestamp FROM maps m JOIN (
			SELECT Map, Time, Timestamp FROM race
			WHERE Timestamp >= ? AND Timestamp <= ?
		) r ON m.Map = r.Map AND m.Points > 0
		ORDER BY r.Time DESC, r.Timestamp ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("longest finishes query failed: %w", err)
	}
	defer rows.Close()

	var finishes []Finish
	for rows.Next() {
		var f Finish
		if err := rows.Scan(&f.Map, &f.Time, &f.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan finish: %w", err)
		}
		finishes = append(finishes, f)
	}
	return finishes, rows.Err()
}

// TopTeammates counts co-player appearances across the team events the
// player took part in during the year, excluding the player, up to limit.
func (s *Store) TopTeammates(ctx context.Context, start, end int64, player string, limit int) ([]Teammate, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH FilteredIDs AS (
			SELECT DISTINCT ID FROM teamrace
			WHERE Timestamp >= ? AND Timestamp <= ? AND Name = ?
		)
		SELECT t.Name, COUNT(t.ID) AS Num
		FROM teamrace t
		JOIN FilteredIDs f ON t.ID = f.ID
		WHERE t.Name != ?
		GROUP BY t.Name ORDER BY Num DESC, t.Name ASC LIMIT ?`,
		start, end, player, player, limit)
	if err != nil {
		return nil, fmt.Errorf("teammates query failed: %w", err)
	}
	defer rows.Close()

	var mates []Teammate
	for rows.Next() {
		var tm Teammate
		if err := rows.Scan(&tm.Name, &tm.Races); err != nil {
			return nil, fmt.Errorf("failed to scan teammate: %w", err)
		}
		mates = append(mates, tm)
	}
	return mates, rows.Err()
}

// DistinctTeammates lists every distinct co-player across the team events
// the player took part in during the year.
func (s *Store) DistinctTeammates(ctx context.Context, start, end int64, player string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH FilteredIDs AS (
			SELECT DISTINCT ID FROM teamrace
			WHERE Timestamp >= ? AND Timestamp <= ? AND Name = ?
		)
		SELECT DISTINCT t.Name FROM teamrace t
		JOIN FilteredIDs f ON t.ID = f.ID
		WHERE t.Name != ?
		ORDER BY t.Name ASC`,
		start, end, player, player)
	if err != nil {
		return nil, fmt.Errorf("distinct teammates query failed: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan teammate name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// BiggestTeam returns the largest single team completion event of the
// year: its member count, map, member names and instant.
func (s *Store) BiggestTeam(ctx context.Context, start, end int64) (*BiggestTeam, error) {
	row := s.db.QueryRowContext(ctx, `
		WITH FilteredIDs AS (
			SELECT DISTINCT ID FROM teamrace
			WHERE Timestamp >= ? AND Timestamp <= ? AND ID != ''
		)
		SELECT COUNT(*) AS Num, t.Map, GROUP_CONCAT(t.Name, ?), t.Timestamp
		FROM teamrace t
		JOIN FilteredIDs f ON t.ID = f.ID
		GROUP BY t.ID ORDER BY Num DESC, t.Timestamp ASC LIMIT 1`,
		start, end, teamSeparator)

	var (
		bt      BiggestTeam
		members string
	)
	if err := row.Scan(&bt.Size, &bt.Map, &members, &bt.Timestamp); err != nil {
		return nil, noRows(err, "biggest team")
	}
	bt.Members = strings.Split(members, teamSeparator)
	return &bt, nil
}

// RaceSeconds sums completion durations inside [start, end].
func (s *Store) RaceSeconds(ctx context.Context, start, end int64) (float64, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(Time), 0) FROM race WHERE Timestamp >= ? AND Timestamp <= ?`,
		start, end)

	var seconds float64
	if err := row.Scan(&seconds); err != nil {
		return 0, fmt.Errorf("race time query failed: %w", err)
	}
	return seconds, nil
}

// ServerCount pairs a server identifier with its completion count.
type ServerCount struct {
	Server string
	Count  int
}

// ServerFinishes groups the year's completions by server, most used first.
func (s *Store) ServerFinishes(ctx context.Context, start, end int64) ([]ServerCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT Server, COUNT(*) AS Cnt FROM race
		WHERE Timestamp >= ? AND Timestamp <= ?
		GROUP BY Server ORDER BY Cnt DESC, Server ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("server finishes query failed: %w", err)
	}
	defer rows.Close()

	var servers []ServerCount
	for rows.Next() {
		var sc ServerCount
		if err := rows.Scan(&sc.Server, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan server count: %w", err)
		}
		servers = append(servers, sc)
	}
	return servers, rows.Err()
}

// BusiestDistinctSlice returns the aligned hour bucket with the most
// distinct maps finished, or nil for an empty year.
func (s *Store) BusiestDistinctSlice(ctx context.Context, start, end int64) (*Slice, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT (Timestamp / 3600) * 3600 AS Slice, COUNT(DISTINCT Map) AS Cnt
		FROM race WHERE Timestamp >= ? AND Timestamp <= ?
		GROUP BY Slice ORDER BY Cnt DESC, Slice ASC LIMIT 1`,
		start, end)

	var sl Slice
	if err := row.Scan(&sl.Start, &sl.Count); err != nil {
		return nil, noRows(err, "busiest slice")
	}
	return &sl, nil
}

// WindowEvent is a map's first completion inside the window neighborhood.
type WindowEvent struct {
	Map       string
	Timestamp int64
}

// WindowEvents returns per-map first completions inside [lo, hi),
// chronologically sorted, for the sliding-window analyzer.
func (s *Store) WindowEvents(ctx context.Context, lo, hi int64) ([]WindowEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT Map, MIN(Timestamp) AS Ts FROM race
		WHERE Timestamp >= ? AND Timestamp < ?
		GROUP BY Map ORDER BY Ts ASC, Map ASC`,
		lo, hi)
	if err != nil {
		return nil, fmt.Errorf("window events query failed: %w", err)
	}
	defer rows.Close()

	var events []WindowEvent
	for rows.Next() {
		var ev WindowEvent
		if err := rows.Scan(&ev.Map, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan window event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// FinishInterval is one completion expressed as a [start, end) interval.
type FinishInterval struct {
	Map   string
	Start int64
	End   int64
}

// FinishIntervals returns every completion inside [lo, hi) as an interval
// from run start (Timestamp - Time) to finish.
func (s *Store) FinishIntervals(ctx context.Context, lo, hi int64) ([]FinishInterval, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT Map, CAST(Timestamp - Time AS INTEGER) AS StartTs, Timestamp AS EndTs
		FROM race WHERE Timestamp >= ? AND Timestamp < ?
		ORDER BY StartTs ASC, Map ASC`,
		lo, hi)
	if err != nil {
		return nil, fmt.Errorf("finish intervals query failed: %w", err)
	}
	defer rows.Close()

	var intervals []FinishInterval
	for rows.Next() {
		var fi FinishInterval
		if err := rows.Scan(&fi.Map, &fi.Start, &fi.End); err != nil {
			return nil, fmt.Errorf("failed to scan finish interval: %w", err)
		}
		intervals = append(intervals, fi)
	}
	return intervals, rows.Err()
}

// BiggestImprovement returns the map where this year's best time most
// improved on the player's earlier best, relative to that earlier best.
// Fun and event categories grant no meaningful times and are excluded.
func (s *Store) BiggestImprovement(ctx context.Context, start, end int64) (*Improvement, error) {
	row := s.db.QueryRowContext(ctx, `
		WITH YearMapTimes AS (
			SELECT race.Map, MIN(Time) AS MinTime, race.Timestamp
			FROM race JOIN maps ON race.Map = maps.Map
			WHERE Points > 0 AND Type != 'Fun' AND Type != 'Event'
				AND race.Timestamp >= ? AND race.Timestamp <= ?
			GROUP BY race.Map
		)
		SELECT race.Map, MinTime, MIN(race.Time) - MinTime AS Delta,
			YearMapTimes.Timestamp, race.Timestamp AS PrvTimestamp
		FROM race JOIN YearMapTimes
			ON race.Map = YearMapTimes.Map AND race.Timestamp < YearMapTimes.Timestamp
		GROUP BY race.Map
		ORDER BY Delta / MIN(race.Time) DESC, race.Map ASC LIMIT 1`,
		start, end)

	var imp Improvement
	if err := row.Scan(&imp.Map, &imp.BestTime, &imp.Delta, &imp.Timestamp, &imp.PreviousTimestamp); err != nil {
		return nil, noRows(err, "biggest improvement")
	}
	return &imp, nil
}

// PointSample is one step of the cumulative point-total series.
type PointSample struct {
	Timestamp int64
	Points    int
}

// PointHistory returns the cumulative point total keyed by each map's
// first-ever completion, across the player's whole history.
func (s *Store) PointHistory(ctx context.Context) ([]PointSample, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH first_finishes AS (
			SELECT MIN(race.Timestamp) AS Timestamp, maps.Points
			FROM race JOIN maps ON race.Map = maps.Map
			GROUP BY race.Map
		)
		SELECT Timestamp, SUM(Points) OVER (ORDER BY Timestamp) AS Points
		FROM first_finishes
		ORDER BY Timestamp`)
	if err != nil {
		return nil, fmt.Errorf("point history query failed: %w", err)
	}
	defer rows.Close()

	var history []PointSample
	for rows.Next() {
		var ps PointSample
		if err := rows.Scan(&ps.Timestamp, &ps.Points); err != nil {
			return nil, fmt.Errorf("failed to scan point sample: %w", err)
		}
		history = append(history, ps)
	}
	return history, rows.Err()
}

// CategoryTimes sums completion durations per category family (compared on
// the first three characters, so the DDmaX variants fold together), keyed
// by the family label before any '.' suffix.
func (s *Store) CategoryTimes(ctx context.Context, start, end int64) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT Type, SUM(Time) AS Time
		FROM race JOIN maps ON race.Map = maps.Map
		WHERE race.Timestamp >= ? AND race.Timestamp <= ?
		GROUP BY SUBSTR(Type, 1, 3)`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("category times query failed: %w", err)
	}
	defer rows.Close()

	times := make(map[string]float64)
	for rows.Next() {
		var (
			category string
			seconds  float64
		)
		if err := rows.Scan(&category, &seconds); err != nil {
			return nil, fmt.Errorf("failed to scan category time: %w", err)
		}
		times[categoryFamily(category)] = seconds
	}
	return times, rows.Err()
}

// CategoryCompletion computes, per category family, the share of released
// maps the player has completed before cutoff.
func (s *Store) CategoryCompletion(ctx context.Context, cutoff int64) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT Type, COUNT(DISTINCT race.Map) / CAST(COUNT(DISTINCT maps.Map) AS REAL)
		FROM maps LEFT JOIN race
			ON race.Timestamp < ? AND maps.Timestamp < ? AND race.Map = maps.Map
		GROUP BY SUBSTR(Type, 1, 3)`,
		cutoff, cutoff)
	if err != nil {
		return nil, fmt.Errorf("category completion query failed: %w", err)
	}
	defer rows.Close()

	completion := make(map[string]float64)
	for rows.Next() {
		var (
			category string
			ratio    float64
		)
		if err := rows.Scan(&category, &ratio); err != nil {
			return nil, fmt.Errorf("failed to scan category completion: %w", err)
		}
		completion[categoryFamily(category)] = ratio
	}
	return completion, rows.Err()
}

// categoryFamily strips the variant suffix from a category tag
// ("DDmaX.Easy" and "DDmaX.Pro" both report as "DDmaX").
func categoryFamily(category string) string {
	if i := strings.IndexByte(category, '.'); i >= 0 {
		return category[:i]
	}
	return category
}

// noRows translates sql.ErrNoRows into an absent result.
func noRows(err error, query string) error {
	if err == sql.ErrNoRows {
		return nil
	}
	return fmt.Errorf("%s query failed: %w", query, err)
}
