// Package archive keeps a history of simulation runs in SQLite.
package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/archerysim/internal/simulator"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

// Record summarizes one archived run.
type Record struct {
	ID             int64
	CreatedAt      time.Time
	Source         string
	Configuration  string
	GamesRequested int
	GamesPlayed    int
	Partial        bool
	StopReason     string
	TeamWinner     string
	TiedRounds     int
	Anomalies      int
	Duration       time.Duration
}

// Store provides SQLite-backed run history.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the archive at path, creating the schema if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveRun persists an outcome and returns its id.
func (s *Store) SaveRun(ctx context.Context, outcome *simulator.Outcome, createdAt time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if outcome == nil {
		return 0, fmt.Errorf("outcome is required")
	}

	payload, err := json.Marshal(outcome)
	if err != nil {
		return 0, fmt.Errorf("encode outcome: %w", err)
	}

	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO runs (
	created_at,
	source,
	configuration,
	games_requested,
	games_played,
	partial,
	stop_reason,
	team_winner,
	tied_rounds,
	anomalies,
	duration_ms,
	outcome_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		createdAt.UTC().UnixMilli(),
		outcome.Stream.Source,
		outcome.Stream.Configuration,
		outcome.Requested,
		outcome.Results.Games,
		outcome.Partial,
		outcome.StopReason,
		outcome.Results.TeamWinner.Team,
		outcome.Results.TiedRounds.Tied,
		outcome.Results.Anomalies,
		outcome.Efficiency.Total.Milliseconds(),
		string(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}
	return id, nil
}

// Recent lists newest-first run records.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	id,
	created_at,
	source,
	configuration,
	games_requested,
	games_played,
	partial,
	stop_reason,
	team_winner,
	tied_rounds,
	anomalies,
	duration_ms
FROM runs
ORDER BY created_at DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var (
			r          Record
			createdAt  int64
			durationMS int64
		)
		if err := rows.Scan(
			&r.ID,
			&createdAt,
			&r.Source,
			&r.Configuration,
			&r.GamesRequested,
			&r.GamesPlayed,
			&r.Partial,
			&r.StopReason,
			&r.TeamWinner,
			&r.TiedRounds,
			&r.Anomalies,
			&durationMS,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt = time.UnixMilli(createdAt).UTC()
		r.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}

// Outcome loads the full outcome stored for a run.
func (s *Store) Outcome(ctx context.Context, id int64) (*simulator.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var payload string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT outcome_json FROM runs WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %d: %w", id, err)
	}

	var outcome simulator.Outcome
	if err := json.Unmarshal([]byte(payload), &outcome); err != nil {
		return nil, fmt.Errorf("decode run %d: %w", id, err)
	}
	return &outcome, nil
}
