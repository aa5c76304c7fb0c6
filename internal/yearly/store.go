package yearly

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/raceops/rewind/internal/activity"
	"github.com/raceops/rewind/internal/catalog"
)

// Store is the embedded relational store one derivation run queries
// against. It is created fresh per run, bulk loaded once inside a single
// transaction, queried read-only, and discarded.
type Store struct {
	db *sql.DB
}

const storeSchema = `
	CREATE TABLE race (
		Map TEXT,
		Time REAL,
		Timestamp INTEGER,
		Server TEXT
	);
	CREATE TABLE teamrace (
		ID TEXT,
		Name TEXT,
		Map TEXT,
		Time REAL,
		Timestamp INTEGER
	);
	CREATE TABLE maps (
		Map TEXT,
		Type TEXT,
		Points INTEGER,
		Difficulty TEXT,
		Mapper TEXT,
		Timestamp INTEGER
	);

	CREATE INDEX maps_map_idx ON maps(Map);
	CREATE INDEX maps_timestamp_idx ON maps(Timestamp);
	CREATE INDEX race_map_idx ON race(Map);
	CREATE INDEX race_timestamp_idx ON race(Timestamp);
	CREATE INDEX teamrace_map_idx ON teamrace(Map);
	CREATE INDEX teamrace_timestamp_idx ON teamrace(Timestamp);
`

// NewStore builds an in-memory store from one player's activity log and a
// catalog snapshot. Any schema or load failure wraps ErrStoreInit and is
// fatal to the run.
func NewStore(ctx context.Context, payload *activity.Payload, maps []catalog.Map) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrStoreInit, err)
	}

	// A second connection would see its own empty :memory: database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.load(ctx, payload, maps); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) load(ctx context.Context, payload *activity.Payload, maps []catalog.Map) error {
	if _, err := s.db.ExecContext(ctx, storeSchema); err != nil {
		return fmt.Errorf("%w: schema: %v", ErrStoreInit, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrStoreInit, err)
	}
	defer func() { _ = tx.Rollback() }()

	raceStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO race (Map, Time, Timestamp, Server) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: prepare race: %v", ErrStoreInit, err)
	}
	defer func() { _ = raceStmt.Close() }()

	for _, race := range payload.Races {
		if _, err := raceStmt.ExecContext(ctx, race.Map, race.Time, race.Timestamp, race.Server); err != nil {
			return fmt.Errorf("%w: insert race: %v", ErrStoreInit, err)
		}
	}

	teamStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO teamrace (ID, Name, Map, Time, Timestamp) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: prepare teamrace: %v", ErrStoreInit, err)
	}
	defer func() { _ = teamStmt.Close() }()

	for _, tr := range payload.TeamRaces {
		id := hex.EncodeToString(tr.ID)
		if _, err := teamStmt.ExecContext(ctx, id, tr.Name, tr.Map, tr.Time, tr.Timestamp); err != nil {
			return fmt.Errorf("%w: insert teamrace: %v", ErrStoreInit, err)
		}
	}

	mapStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO maps (Map, Type, Points, Difficulty, Mapper, Timestamp) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: prepare maps: %v", ErrStoreInit, err)
	}
	defer func() { _ = mapStmt.Close() }()

	for _, m := range maps {
		if _, err := mapStmt.ExecContext(ctx, m.Name, m.Type, m.Points, m.Difficulty, m.Mapper, m.ReleaseUnix()); err != nil {
			return fmt.Errorf("%w: insert map: %v", ErrStoreInit, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStoreInit, err)
	}

	return nil
}

// Close releases the in-memory database.
func (s *Store) Close() error {
	return s.db.Close()
}
