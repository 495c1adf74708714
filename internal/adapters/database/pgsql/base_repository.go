package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATE codes the console reacts to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
	codeInvalidDatetime     = "22007"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// translate turns a Postgres error into an AppError that carries the server's
// own message, the way the hosted data service reports it.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return apperrors.NewAppError(http.StatusConflict, pgErr.Message, apperrors.ErrDuplicate)
	case codeForeignKeyViolation:
		return apperrors.NewAppError(http.StatusConflict, pgErr.Message, apperrors.ErrConflict)
	case codeNotNullViolation, codeCheckViolation, codeInvalidText, codeInvalidDatetime:
		return apperrors.NewAppError(http.StatusBadRequest, pgErr.Message, apperrors.ErrValidation)
	}
	return apperrors.NewAppError(http.StatusInternalServerError, pgErr.Message, err)
}
