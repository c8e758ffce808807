package state

import (
	"context"
	"time"
)

type Store interface {
	EnsureSchema(ctx context.Context) error
	SaveScore(ctx context.Context, entry ScoreEntry) (int64, error)
	TopScores(ctx context.Context, limit int) ([]ScoreEntry, error)
	CountScores(ctx context.Context) (int, error)
	AppendEvent(ctx context.Context, event Event) error
	Close() error
}

// ScoreEntry is one consented leaderboard submission.
type ScoreEntry struct {
	ID    int64
	Name  string
	Role  string
	Score int
	TS    time.Time
}

// Event is a request log record kept when request logging is on.
type Event struct {
	Kind    string
	Role    string
	Payload string
	TS      time.Time
}
