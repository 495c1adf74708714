package services

import (
	"context"
	"time"

	"github.com/SscSPs/sismog_console/internal/core/domain"
)

// LoginResult is returned by a successful sign-in.
type LoginResult struct {
	Session   domain.Session
	Token     string
	ExpiresAt time.Time
}

// AuthSvcFacade handles sign-in, sign-out and password reset requests.
type AuthSvcFacade interface {
	// Login verifies credentials with the identity service, opens the user's
	// workspace and issues a console token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Logout revokes the identity session and discards the workspace.
	Logout(ctx context.Context, userID string) error

	// RequestPasswordReset starts the reset flow for email.
	RequestPasswordReset(ctx context.Context, email string) error
}
