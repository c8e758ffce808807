package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer keeps concurrent submissions from hitting SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			score INTEGER NOT NULL CHECK (score BETWEEN 0 AND 10),
			ts TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS scores_rank ON scores(score DESC, ts DESC);`,
		`CREATE TABLE IF NOT EXISTS request_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			payload TEXT NOT NULL,
			ts TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveScore(ctx context.Context, entry ScoreEntry) (int64, error) {
	ts := entry.TS
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scores(name, role, score, ts) VALUES(?,?,?,?)`,
		strings.TrimSpace(entry.Name),
		strings.TrimSpace(entry.Role),
		entry.Score,
		ts.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// TopScores ranks by score, then newest first. Entries saved within the same
// second keep insertion order.
func (s *SQLiteStore) TopScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, role, score, ts
		FROM scores
		ORDER BY score DESC, ts DESC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ScoreEntry, 0, limit)
	for rows.Next() {
		var (
			e     ScoreEntry
			tsRaw string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Role, &e.Score, &tsRaw); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, tsRaw); err == nil {
			e.TS = t
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) CountScores(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scores`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLiteStore) AppendEvent(ctx context.Context, event Event) error {
	ts := event.TS
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO request_events(kind, role, payload, ts) VALUES(?,?,?,?)`,
		strings.TrimSpace(event.Kind),
		event.Role,
		event.Payload,
		ts.UTC().Format(timeLayout),
	)
	return err
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

var _ Store = (*SQLiteStore)(nil)
