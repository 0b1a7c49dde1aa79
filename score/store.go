package score

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Result is one recorded level attempt.
type Result struct {
	Level         string
	BoneMass      float32
	TimeRemaining float32
	Mana          float32
	Won           bool
	FinishedAt    time.Time
}

// NewResult captures s for the named level.
func NewResult(level string, s Score, at time.Time) Result {
	return Result{
		Level:         level,
		BoneMass:      s.BoneMass,
		TimeRemaining: s.TimeRemaining,
		Mana:          s.Mana(),
		Won:           s.Won(),
		FinishedAt:    at.UTC(),
	}
}

// Store keeps results in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the results database at path.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty results db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening results db: %w", err)
	}
	db.SetMaxOpenConns(1)

	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			bone_mass REAL NOT NULL,
			time_remaining REAL NOT NULL,
			mana REAL NOT NULL,
			won INTEGER NOT NULL,
			finished_at TEXT NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS results_level_mana ON results(level, mana);",
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("initializing results db: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Record inserts r.
func (s *Store) Record(ctx context.Context, r Result) error {
	won := 0
	if r.Won {
		won = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (level, bone_mass, time_remaining, mana, won, finished_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.Level, r.BoneMass, r.TimeRemaining, r.Mana, won, r.FinishedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording result: %w", err)
	}
	return nil
}

// Best returns up to limit results for level, highest mana first.
func (s *Store) Best(ctx context.Context, level string, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level, bone_mass, time_remaining, mana, won, finished_at FROM results
		 WHERE level = ? ORDER BY mana DESC, id ASC LIMIT ?`, level, limit)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			r        Result
			won      int
			finished string
		)
		if err := rows.Scan(&r.Level, &r.BoneMass, &r.TimeRemaining, &r.Mana, &won, &finished); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Won = won != 0
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
