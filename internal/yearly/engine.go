package yearly

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raceops/rewind/internal/activity"
	"github.com/raceops/rewind/internal/catalog"
	"github.com/raceops/rewind/internal/metrics"
)

// totalQuerySteps is the number of store queries in one run; progress
// advances through the 50-100 band in steps of 50/(totalQuerySteps+2),
// leaving headroom for the sampling phase.
const totalQuerySteps = 25

// CatalogProvider supplies the shared map catalog snapshot.
type CatalogProvider interface {
	Fetch(ctx context.Context) ([]catalog.Map, error)
}

// ActivityProvider supplies one player's raw activity log.
type ActivityProvider interface {
	FetchPlayer(ctx context.Context, name string, version int64) (*activity.Payload, error)
}

// PlaytimeProvider supplies externally tracked playtime. Best effort: a
// failing provider degrades to zero tracked time.
type PlaytimeProvider interface {
	Playtime(ctx context.Context, name string, year int) ([12]int64, error)
}

// ProgressFunc receives progress percentages (0-100, monotonically
// non-decreasing). It is called from the engine's own goroutine.
type ProgressFunc func(progress float64)

// EngineConfig wires an Engine's collaborators.
type EngineConfig struct {
	Catalog  CatalogProvider
	Activity ActivityProvider
	Tracker  PlaytimeProvider // optional
	Logger   *slog.Logger     // optional
	Metrics  *metrics.EngineMetrics

	// Version is a cache-busting stamp appended to activity downloads,
	// typically the upstream database build time.
	Version int64
}

// Engine derives one player's yearly statistics. It is a pure function of
// its inputs modulo the best-effort tracker call: each run builds a fresh
// store, walks the fixed query sequence, samples the chart series and
// discards the store.
type Engine struct {
	cfg EngineConfig
}

// NewEngine creates an engine from its collaborators.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{cfg: cfg}
}

// Derive computes the full yearly record for (name, year, tz). Progress is
// reported through onProgress, which may be nil. Only timezone validation,
// input fetching and store construction can fail; individual queries with
// no rows leave their fields absent.
func (e *Engine) Derive(ctx context.Context, name string, year int, tz string, onProgress ProgressFunc) (*Data, error) {
	if onProgress == nil {
		onProgress = func(float64) {}
	}

	runStart := time.Now()

	bounds, err := YearBounds(year, tz)
	if err != nil {
		return nil, err
	}

	maps, err := e.cfg.Catalog.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch map catalog: %w", err)
	}
	lookup := catalog.Lookup(maps)
	onProgress(20)

	payload, err := e.cfg.Activity.FetchPlayer(ctx, name, e.cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity for %q: %w", name, err)
	}
	onProgress(40)

	store, err := NewStore(ctx, payload, maps)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()
	onProgress(50)

	e.cfg.Logger.Debug("store loaded",
		"player", name,
		"races", len(payload.Races),
		"team_races", len(payload.TeamRaces),
		"maps", len(maps))

	data := &Data{Player: name, Year: year, Timezone: tz}

	// Fixed query sequence. step advances the progress fraction after
	// every store query, whether or not it produced rows.
	queryStep := 0
	step := func(stepName string, started time.Time) {
		if e.cfg.Metrics != nil {
			e.cfg.Metrics.RecordStep(stepName, time.Since(started))
		}
		queryStep++
		onProgress(50 + float64(queryStep)/float64(totalQuerySteps+2)*50)
	}
	run := func(stepName string, query func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		started := time.Now()
		if err := query(); err != nil {
			return err
		}
		step(stepName, started)
		return nil
	}

	queries := []struct {
		name string
		fn   func() error
	}{
		{"first_finish", func() (err error) {
			data.FirstFinish, err = store.FirstFinish(ctx, bounds.YearEnd)
			return
		}},
		{"points_this_year", func() (err error) {
			data.PointsThisYear, err = store.PointsBefore(ctx, bounds.YearEnd)
			return
		}},
		{"points_last_year", func() (err error) {
			data.PointsLastYear, err = store.PointsBefore(ctx, bounds.PrevYearEnd)
			return
		}},
		{"top_new_map", func() (err error) {
			data.TopNewMap, err = store.TopNewMap(ctx, bounds.PrevYearEnd, bounds.YearStart, bounds.YearEnd)
			return
		}},
		{"total_finishes", func() (err error) {
			data.TotalFinishes, err = store.CountFinishes(ctx, bounds.YearStart, bounds.YearEnd)
			return
		}},
		{"hourly_slices", func() error {
			slices, err := store.HourlySlices(ctx, bounds.YearStart, bounds.YearEnd)
			if err != nil {
				return err
			}
			data.BusiestHours, data.BusiestMonth = FoldSlices(slices, bounds.Location())
			return nil
		}},
		{"late_night", func() (err error) {
			data.LateNight, err = store.LateNight(ctx, bounds.YearStart, bounds.YearEnd, bounds.Offset)
			return
		}},
		{"release_coverage", func() error {
			rows, err := store.ReleaseCoverageRows(ctx, bounds.RefYearStart, bounds.RefYearEnd, bounds.YearEnd)
			if err != nil {
				return err
			}
			data.ReleaseCoverage = summarizeCoverage(rows)
			return nil
		}},
		{"release_record", func() (err error) {
			data.ReleaseRecord, err = store.ReleaseRecord(ctx, bounds.YearStart, bounds.YearEnd)
			return
		}},
		{"top_category", func() (err error) {
			data.TopCategory, err = store.TopCategory(ctx, bounds.YearStart, bounds.YearEnd)
			return
		}},
		{"most_finished", func() error {
			top, err := store.TopMaps(ctx, bounds.YearStart, bounds.YearEnd, 1)
			if err != nil {
				return err
			}
			if len(top) > 0 {
				data.MostFinished = &top[0]
			}
			return nil
		}},
		{"top_maps", func() (err error) {
			data.TopMaps, err = store.TopMaps(ctx, bounds.YearStart, bounds.YearEnd, 5)
			return
		}},
		{"longest_finishes", func() error {
			finishes, err := store.LongestFinishes(ctx, bounds.YearStart, bounds.YearEnd)
			if err != nil {
				return err
			}
			if len(finishes) > 0 {
				data.Slowest = &finishes[0]
			}
			data.SlowFinishes = SampleSlowFinishes(finishes, lookup, 4)
			return nil
		}},
		{"teammates", func() (err error) {
			data.Teammates, err = store.TopTeammates(ctx, bounds.YearStart, bounds.YearEnd, name, 2)
			return
		}},
		{"distinct_teammates", func() (err error) {
			data.TeammateNames, err = store.DistinctTeammates(ctx, bounds.YearStart, bounds.YearEnd, name)
			return
		}},
		{"biggest_team", func() (err error) {
			data.BiggestTeam, err = store.BiggestTeam(ctx, bounds.YearStart, bounds.YearEnd)
			return
		}},
		{"race_seconds", func() (err error) {
			data.RaceSeconds, err = store.RaceSeconds(ctx, bounds.YearStart, bounds.YearEnd)
			return
		}},
	}

	for _, q := range queries {
		if err := run(q.name, q.fn); err != nil {
			return nil, err
		}
	}

	// Maps the player co-authored this year come straight from the
	// catalog snapshot.
	data.MapperMaps = mapperMaps(maps, name, year)

	// Best-effort external tracker call. Failure means zero tracked time,
	// never a failed run.
	if e.cfg.Tracker != nil {
		if playtime, err := e.cfg.Tracker.Playtime(ctx, name, year); err != nil {
			e.cfg.Logger.Info("playtime tracker unavailable", "player", name, "error", err)
		} else {
			for _, seconds := range playtime {
				data.TrackedSeconds += seconds
			}
		}
	}

	if err := run("server_finishes", func() error {
		servers, err := store.ServerFinishes(ctx, bounds.YearStart, bounds.YearEnd)
		if err != nil {
			return err
		}
		data.TopServer = summarizeServers(servers, data.TotalFinishes)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := e.deriveFinishWindow(ctx, store, bounds, data, run, &queryStep, onProgress); err != nil {
		return nil, err
	}

	if err := run("biggest_improvement", func() (err error) {
		data.Improvement, err = store.BiggestImprovement(ctx, bounds.YearStart, bounds.YearEnd)
		return
	}); err != nil {
		return nil, err
	}

	// Sampling phase.
	if err := run("point_history", func() error {
		history, err := store.PointHistory(ctx)
		if err != nil {
			return err
		}
		data.PointHistory = SamplePointHistory(history, bounds.YearStart, bounds.YearEnd)
		return nil
	}); err != nil {
		return nil, err
	}

	var categoryTimes, categoryCompletion map[string]float64
	if err := run("category_times", func() (err error) {
		categoryTimes, err = store.CategoryTimes(ctx, bounds.YearStart, bounds.YearEnd)
		return
	}); err != nil {
		return nil, err
	}
	if err := run("category_completion", func() (err error) {
		categoryCompletion, err = store.CategoryCompletion(ctx, bounds.YearEnd)
		return
	}); err != nil {
		return nil, err
	}
	data.Radar = BuildRadar(categoryTimes, categoryCompletion)

	onProgress(50 + float64(totalQuerySteps+1)/float64(totalQuerySteps+2)*50)

	if e.cfg.Metrics != nil {
		e.cfg.Metrics.RecordRun(time.Since(runStart))
	}
	e.cfg.Logger.Debug("derivation complete",
		"player", name,
		"year", year,
		"duration", time.Since(runStart))

	onProgress(100)

	return data, nil
}

// deriveFinishWindow runs the busiest-slice query, the neighborhood query
// and the interval re-query. When the year is empty the two follow-up
// steps still advance the progress counter so runs report comparable
// fractions.
func (e *Engine) deriveFinishWindow(ctx context.Context, store *Store, bounds Bounds, data *Data,
	run func(string, func() error) error, queryStep *int, onProgress ProgressFunc) error {

	var busiest *Slice
	if err := run("busiest_slice", func() (err error) {
		busiest, err = store.BusiestDistinctSlice(ctx, bounds.YearStart, bounds.YearEnd)
		return
	}); err != nil {
		return err
	}

	if busiest == nil {
		*queryStep += 2
		onProgress(50 + float64(*queryStep)/float64(totalQuerySteps+2)*50)
		return nil
	}

	var start int64
	var windowMaps []string
	if err := run("window_events", func() error {
		events, err := store.WindowEvents(ctx, busiest.Start-neighborhoodLead, busiest.Start+neighborhoodTail)
		if err != nil {
			return err
		}
		start, windowMaps = BestWindow(events)
		return nil
	}); err != nil {
		return err
	}

	if len(windowMaps) > 0 {
		data.FinishWindow = &FinishWindow{
			Start: start,
			Count: len(windowMaps),
			Maps:  windowMaps,
		}
	}

	return run("finish_intervals", func() error {
		intervals, err := store.FinishIntervals(ctx, start, start+windowSpan)
		if err != nil {
			return err
		}
		data.WindowSpans = SpanLanes(intervals)
		return nil
	})
}

// summarizeCoverage reduces the coverage rows to the release-coverage
// record: total released, how many the player finished, and the most
// finished one.
func summarizeCoverage(rows []MapCount) *ReleaseCoverage {
	if len(rows) == 0 {
		return nil
	}

	coverage := &ReleaseCoverage{Released: len(rows)}
	for _, row := range rows {
		if row.Count > 0 {
			coverage.Finished++
		}
	}
	if rows[0].Count > 0 {
		coverage.TopMap = rows[0].Map
		coverage.TopFinishes = rows[0].Count
	}
	return coverage
}

// summarizeServers reduces the per-server counts to the top server plus a
// textual share summary of the rest.
func summarizeServers(servers []ServerCount, totalFinishes int) *ServerUsage {
	if len(servers) == 0 {
		return nil
	}

	usage := &ServerUsage{
		Server:   servers[0].Server,
		Finishes: servers[0].Count,
	}
	others := make([]byte, 0, 32)
	for i, server := range servers[1:] {
		if i > 0 {
			others = append(others, ' ')
		}
		share := 0.0
		if totalFinishes > 0 {
			share = float64(server.Count) / float64(totalFinishes) * 100
		}
		others = fmt.Appendf(others, "%s (%.1f%%)", server.Server, share)
	}
	usage.Others = string(others)
	return usage
}

// mapperMaps lists catalog maps released in year that credit the player as
// a mapper.
func mapperMaps(maps []catalog.Map, player string, year int) []string {
	var names []string
	for _, m := range maps {
		if m.ReleaseYear() != year {
			continue
		}
		for _, mapper := range m.Mappers() {
			if mapper == player {
				names = append(names, m.Name)
				break
			}
		}
	}
	return names
}
