package interfaces

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the querier accepted by the Postgres repositories so the same
// code runs against a *pgxpool.Pool or an open pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxManager runs a function inside one database transaction, committing
// on success and rolling back on error. It exists as an interface so
// services can be unit-tested without a live pool.
type TxManager interface {
	WithTx(ctx context.Context, fn func(tx DBTX) error) error
}
