package repositories

import (
	"context"

	"github.com/SscSPs/sismog_console/internal/core/domain"
)

// Authenticator exchanges credentials for sessions.
type Authenticator interface {
	// SignIn verifies the email/secret pair and opens a session.
	SignIn(ctx context.Context, email, secret string) (*domain.Session, error)

	// SignOut revokes the session behind accessToken where the backend supports it.
	SignOut(ctx context.Context, accessToken string) error
}

// CredentialManager mutates credentials out of band from the profile records.
type CredentialManager interface {
	// RequestCredentialReset starts the reset flow for email.
	RequestCredentialReset(ctx context.Context, email string) error

	// UpdateCredential replaces the secret of the user owning accessToken.
	UpdateCredential(ctx context.Context, accessToken, newSecret string) error
}

// IdentityClientFacade combines all identity operations.
type IdentityClientFacade interface {
	Authenticator
	CredentialManager
}
