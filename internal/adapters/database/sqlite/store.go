// Package sqlite keeps the console collections as JSON documents in a single
// SQLite table. It backs local development and the integration tests; joins,
// filters and ordering are resolved in Go.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/sismog_console/internal/apperrors"
)

// timestampLayout is fixed-width so stored timestamps sort lexicographically.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_records_collection ON records (collection)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		user_id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS password_resets (
		token_hash TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES accounts (user_id) ON DELETE CASCADE,
		expires_at TEXT NOT NULL,
		used_at TEXT
	)`,
}

// Store owns the database handle shared by the collection and identity stores.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates the tables it needs if they are missing.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

// inTx runs fn in a transaction, rolling back when fn fails.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	defer func() {
		if retErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				retErr = errors.Join(retErr, rbErr)
			}
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// parseID accepts only the integer row ids this store hands out.
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, err == nil && n > 0
}
