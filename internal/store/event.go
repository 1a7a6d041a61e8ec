package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// rowQuerier is satisfied by *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sequenceCounter hands out the event sequence shared by attempts, session
// events and LLM requests, so events of different kinds can be merged into
// one timeline. It lives in a one-row table so that every process using
// the database file draws from the same counter.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

const (
	seqTable = "event_sequence"
	seqDDL   = `CREATE TABLE IF NOT EXISTS event_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL
	)`
	seqSeed = `INSERT OR IGNORE INTO event_sequence (id, next_val) VALUES (1, 1)`
	seqBump = `UPDATE event_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`
)

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	for _, stmt := range []string{seqDDL, seqSeed} {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("%s: %w", seqTable, err)
		}
	}
	return &sequenceCounter{db: db}, nil
}

// Next draws a number outside any transaction.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	return sc.NextIn(ctx, sc.db)
}

// NextIn draws a number through q. Inside a transaction the increment
// rolls back with it, so aborted writes leave no gap.
func (sc *sequenceCounter) NextIn(ctx context.Context, q rowQuerier) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var n int64
	if err := q.QueryRowContext(ctx, seqBump).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}
