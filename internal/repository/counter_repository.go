package repository

import (
	"context"
	"database/sql"
)

// Counter names used by the booking workflow.  Each row in the
// counters table holds the last value handed out for one sequence.
const (
	CounterVenues   = "venues"
	CounterSessions = "jam_sessions"
)

// CounterRepo hands out sequential numbers from the counters table.
// The upsert below is a single atomic statement, so two concurrent
// callers can never observe the same value; this replaces the
// count-all-rows-plus-one pattern, which loses uniqueness under
// concurrent creation.
type CounterRepo struct {
	db *sql.DB
}

// NewCounterRepo returns a CounterRepo bound to the given database.
func NewCounterRepo(db *sql.DB) *CounterRepo { return &CounterRepo{db: db} }

// NextTx increments the named counter within the provided transaction
// and returns the new value.  LAST_INSERT_ID(expr) stores expr in the
// connection's insert-id slot, which LastInsertId then reads back; the
// whole exchange stays on the transaction's connection.
func (r *CounterRepo) NextTx(ctx context.Context, tx *sql.Tx, name string) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, LAST_INSERT_ID(1))
         ON DUPLICATE KEY UPDATE value = LAST_INSERT_ID(value + 1)`,
		name,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Next increments the named counter outside any caller transaction.
func (r *CounterRepo) Next(ctx context.Context, name string) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	n, err := r.NextTx(ctx, tx, name)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
