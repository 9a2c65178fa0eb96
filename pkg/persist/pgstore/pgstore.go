// Package pgstore adapts a Postgres database, via lib/pq, to
// persist.EventLogWriter and persist.SnapshotStore for deployments that
// want a shared, queryable phase history across restarts.
package pgstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/ninthcircle/conclave/pkg/persist"
)

// Store persists phase records and snapshots in Postgres.
type Store struct {
	db *sql.DB
}

// New wraps an already-open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres using a lib/pq DSN.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore: open: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate creates the tables pgstore needs, if absent.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS conclave_phases (
			id SERIAL PRIMARY KEY,
			game_id TEXT NOT NULL,
			year INT NOT NULL,
			season TEXT NOT NULL,
			phase_type TEXT NOT NULL,
			state_before JSONB,
			state_after JSONB,
			deadline TIMESTAMPTZ,
			resolved_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS conclave_phases_game_id_idx ON conclave_phases (game_id, created_at);

		CREATE TABLE IF NOT EXISTS conclave_snapshots (
			game_id TEXT PRIMARY KEY,
			state JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("pgstore: migrate: %w", err)
	}
	return nil
}

// Append inserts one resolved phase record.
func (s *Store) Append(ctx context.Context, rec persist.PhaseRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conclave_phases (game_id, year, season, phase_type, state_before, state_after, deadline, resolved_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.GameID, rec.Year, rec.Season, rec.PhaseType, rec.StateBefore, rec.StateAfter, rec.Deadline, rec.ResolvedAt)
	if err != nil {
		return fmt.Errorf("pgstore: append phase: %w", err)
	}
	return nil
}

// Phases returns every phase record for a game, oldest first.
func (s *Store) Phases(ctx context.Context, gameID string) ([]persist.PhaseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, year, season, phase_type, state_before, state_after, deadline, resolved_at
		 FROM conclave_phases WHERE game_id = $1 ORDER BY created_at`, gameID)
	if err != nil {
		return nil, fmt.Errorf("pgstore: list phases: %w", err)
	}
	defer rows.Close()

	var out []persist.PhaseRecord
	for rows.Next() {
		var rec persist.PhaseRecord
		if err := rows.Scan(&rec.GameID, &rec.Year, &rec.Season, &rec.PhaseType,
			&rec.StateBefore, &rec.StateAfter, &rec.Deadline, &rec.ResolvedAt); err != nil {
			return nil, fmt.Errorf("pgstore: scan phase: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveSnapshot upserts the game's latest full-state snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, gameID string, state []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conclave_snapshots (game_id, state, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (game_id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`,
		gameID, state)
	if err != nil {
		return fmt.Errorf("pgstore: save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the game's latest snapshot, if any.
func (s *Store) LoadSnapshot(ctx context.Context, gameID string) ([]byte, bool, error) {
	var state []byte
	err := s.db.QueryRowContext(ctx, `SELECT state FROM conclave_snapshots WHERE game_id = $1`, gameID).Scan(&state)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("pgstore: load snapshot: %w", err)
	}
	return state, true, nil
}

var _ persist.EventLogWriter = (*Store)(nil)
var _ persist.SnapshotStore = (*Store)(nil)
