// Package storage provides SQLite-based persistence for round history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for round history.
type Store struct {
	db *sql.DB
}

// RoundRecord is the persisted summary of one finished round.
type RoundRecord struct {
	ID        int64
	RoundID   string // UUID assigned when the round starts
	Seed      int64
	Policy    string
	Mode      string
	Source    string // "local" or the SSH user
	RedFives  bool
	WallLimit int
	Draws     int
	Discards  int
	Reason    string // "wall exhausted", "cancelled", "aborted"
	Indicator string // Tile code of the dora indicator
	Duration  time.Duration
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id TEXT NOT NULL UNIQUE,
			seed INTEGER NOT NULL,
			policy TEXT NOT NULL,
			mode TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'local',
			red_fives INTEGER NOT NULL DEFAULT 0,
			wall_limit INTEGER NOT NULL DEFAULT 0,
			draws INTEGER NOT NULL DEFAULT 0,
			discards INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			indicator TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_reason ON rounds(end_reason);
		CREATE INDEX IF NOT EXISTS idx_rounds_source ON rounds(source);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRound records a finished round.
// Returns the ID of the inserted record.
func (s *Store) SaveRound(r RoundRecord) (int64, error) {
	if r.Source == "" {
		r.Source = "local"
	}
	res, err := s.db.Exec(
		`INSERT INTO rounds
		 (round_id, seed, policy, mode, source, red_fives, wall_limit, draws, discards, end_reason, indicator, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RoundID,
		r.Seed,
		r.Policy,
		r.Mode,
		r.Source,
		r.RedFives,
		r.WallLimit,
		r.Draws,
		r.Discards,
		r.Reason,
		r.Indicator,
		r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save round: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const roundColumns = `id, round_id, seed, policy, mode, source, red_fives, wall_limit,
	draws, discards, end_reason, indicator, duration_ms, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRound(row scanner) (RoundRecord, error) {
	var r RoundRecord
	var durationMs int64
	var createdAt any

	err := row.Scan(
		&r.ID,
		&r.RoundID,
		&r.Seed,
		&r.Policy,
		&r.Mode,
		&r.Source,
		&r.RedFives,
		&r.WallLimit,
		&r.Draws,
		&r.Discards,
		&r.Reason,
		&r.Indicator,
		&durationMs,
		&createdAt,
	)
	if err != nil {
		return r, err
	}

	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// RoundByID retrieves a round by its UUID. Returns nil if not found.
func (s *Store) RoundByID(roundID string) (*RoundRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+roundColumns+` FROM rounds WHERE round_id = ?`,
		roundID,
	)

	r, err := scanRound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query round: %w", err)
	}
	return &r, nil
}

// RecentRounds retrieves the most recent rounds, newest first.
func (s *Store) RecentRounds(limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+roundColumns+` FROM rounds ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}
	defer rows.Close()

	var results []RoundRecord
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// ClearRounds deletes all round history.
func (s *Store) ClearRounds() error {
	if _, err := s.db.Exec("DELETE FROM rounds"); err != nil {
		return fmt.Errorf("storage: cannot clear rounds: %w", err)
	}
	return nil
}

// RoundStats contains aggregated statistics over all rounds.
type RoundStats struct {
	Rounds     int
	ByReason   map[string]int
	AvgDraws   float64
	TotalDraws int64
	LastPlayed time.Time
}

// Stats retrieves aggregated round statistics.
func (s *Store) Stats() (*RoundStats, error) {
	stats := &RoundStats{ByReason: make(map[string]int)}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(AVG(draws), 0), COALESCE(SUM(draws), 0), MAX(created_at)
		 FROM rounds`,
	).Scan(&stats.Rounds, &stats.AvgDraws, &stats.TotalDraws, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get round stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	rows, err := s.db.Query(`SELECT end_reason, COUNT(*) FROM rounds GROUP BY end_reason`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get round stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reason string
		var n int
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats.ByReason[reason] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
