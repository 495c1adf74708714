package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager is implemented by the Postgres adapters. Multi-row
// inserts and credential resets run inside one transaction.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback is a no-op on a transaction that already committed.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
