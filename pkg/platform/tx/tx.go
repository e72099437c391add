// Package tx threads an open *sql.Tx through context so stores join the
// caller's transaction without changing their signatures.
package tx

import (
	"context"
	"database/sql"
)

// Executor is the query surface shared by *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Executor = (*sql.DB)(nil)
	_ Executor = (*sql.Tx)(nil)
)

type ctxKey struct{}

// Attach returns ctx carrying tx. A nil tx returns ctx unchanged.
func Attach(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, tx)
}

// Current returns the transaction attached to ctx, if any.
func Current(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(ctxKey{}).(*sql.Tx)
	return tx, ok
}

// Active reports whether ctx already runs inside a transaction.
func Active(ctx context.Context) bool {
	_, ok := Current(ctx)
	return ok
}

// ExecutorFrom picks the attached transaction, or db outside one.
func ExecutorFrom(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := Current(ctx); ok {
		return tx
	}
	return db
}
