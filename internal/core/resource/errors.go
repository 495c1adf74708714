package resource

import (
	"errors"
	"fmt"

	"github.com/SscSPs/sismog_console/internal/apperrors"
)

var (
	// ErrFormClosed is returned by form operations when no form is open.
	ErrFormClosed = fmt.Errorf("form is not open: %w", apperrors.ErrConflict)

	// ErrSaveInProgress is returned when submit is called while a save is in flight.
	ErrSaveInProgress = fmt.Errorf("save already in progress: %w", apperrors.ErrConflict)

	// ErrNoDeleteTarget is returned by ConfirmDelete when nothing was selected.
	ErrNoDeleteTarget = fmt.Errorf("no record selected for deletion: %w", apperrors.ErrConflict)

	// ErrDeleteInProgress is returned when confirm is called twice for the same target.
	ErrDeleteInProgress = fmt.Errorf("delete already in progress: %w", apperrors.ErrConflict)

	// ErrUnsupported is returned for actions a page does not offer.
	ErrUnsupported = errors.New("action not supported on this page")

	// ErrUnknownField is returned by draft setters for fields they do not own.
	ErrUnknownField = fmt.Errorf("unknown field: %w", apperrors.ErrValidation)
)

// Validation messages shared by the page definitions.
const (
	MsgRequired         = "required field missing"
	MsgPasswordMismatch = "passwords do not match"
	MsgPasswordTooShort = "password too short"
)

// ValidationError reports a draft rejected before any collaborator call.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

// PartialSuccessError reports a multi-step save where earlier steps committed
// before a later one failed. Nothing is rolled back.
type PartialSuccessError struct {
	Saved  string
	Failed string
	Err    error
}

func (e *PartialSuccessError) Error() string {
	return fmt.Sprintf("%s saved, but %s failed: %s", e.Saved, e.Failed, apperrors.Message(e.Err))
}

func (e *PartialSuccessError) Unwrap() error {
	return e.Err
}
