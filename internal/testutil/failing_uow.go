package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/fieldplan/internal/db"
)

// FailOnNthExecUoW is a test UoW that injects an error on the Nth ExecContext
// call of a transaction, simulating a backend failure part way through a save
// or delete.
//
// ExecContext calls are counted starting at 1 and the count restarts on every
// WithinTx. Reads pass through. After Disarm, transactions run unmodified so a
// retry can be exercised on the same store.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	disarmed atomic.Bool
	Calls    atomic.Int32
}

// Disarm stops failure injection for subsequent transactions.
func (u *FailOnNthExecUoW) Disarm() { u.disarmed.Store(true) }

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	u.Calls.Add(1)
	failOn := u.FailOn
	if u.disarmed.Load() {
		failOn = 0
	}
	wrapped := &failOnNthExec{DBTX: tx, failOn: failOn, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	if n == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
