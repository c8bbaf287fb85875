package database

import (
	"context"
	"fmt"

	"adventure-server/internal/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure pgTxManager implements TxManager
var _ interfaces.TxManager = (*pgTxManager)(nil)

type pgTxManager struct {
	pool *pgxpool.Pool
}

// NewPgTxManager creates a TxManager over a pgx pool.
func NewPgTxManager(pool *pgxpool.Pool) interfaces.TxManager {
	return &pgTxManager{pool: pool}
}

// WithTx runs fn inside a transaction, committing on success and
// rolling back on error or panic.
func (m *pgTxManager) WithTx(ctx context.Context, fn func(tx interfaces.DBTX) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(context.Background())
			panic(r)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}
	return nil
}
