package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sismog_console/internal/core/ports/services"
	"github.com/SscSPs/sismog_console/internal/platform/config"
	"github.com/SscSPs/sismog_console/internal/utils"
)

// authService signs users in against the identity service and issues the
// console's own bearer token.
type authService struct {
	BaseService
	cfg        *config.Config
	identity   portsrepo.IdentityClientFacade
	workspaces portssvc.WorkspaceSvc
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, identity portsrepo.IdentityClientFacade, workspaces portssvc.WorkspaceSvc) portssvc.AuthSvcFacade {
	return &authService{BaseService: component("auth"), cfg: cfg, identity: identity, workspaces: workspaces}
}

func (s *authService) Login(ctx context.Context, email, password string) (*portssvc.LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	session, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		s.LogError(ctx, err, "Sign-in rejected", slog.String("email", email))
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}
	if session == nil || session.UserID == "" {
		return nil, fmt.Errorf("identity service returned a session without user: %w", apperrors.ErrUnauthorized)
	}
	if session.Email == "" {
		session.Email = email
	}

	lifetime := s.tokenLifetime(*session, time.Now())
	if lifetime <= 0 {
		return nil, fmt.Errorf("identity service returned an expired session: %w", apperrors.ErrUnauthorized)
	}

	token, expiresAt, err := utils.GenerateJWT(session.UserID, session.Email, s.cfg.JWTSecret, lifetime, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to issue console token", slog.String("user_id", session.UserID))
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.workspaces.Open(ctx, *session)
	s.LogInfo(ctx, "User signed in", slog.String("user_id", session.UserID))
	return &portssvc.LoginResult{Session: *session, Token: token, ExpiresAt: expiresAt}, nil
}

// tokenLifetime caps the console token at the identity session expiry, so
// the console never outlives the access token forwarded to the data service.
func (s *authService) tokenLifetime(session domain.Session, now time.Time) time.Duration {
	lifetime := s.cfg.JWTExpiryDuration
	if session.ExpiresAt.IsZero() {
		return lifetime
	}
	return min(lifetime, session.ExpiresAt.Sub(now))
}

// Logout discards the workspace even when the identity service refuses the
// sign-out.
func (s *authService) Logout(ctx context.Context, userID string) error {
	ws, err := s.workspaces.Get(ctx, userID)
	if err != nil {
		return nil // nothing left to revoke
	}
	defer s.workspaces.Close(ctx, userID)

	if err := s.identity.SignOut(ctx, ws.Session.AccessToken); err != nil {
		s.LogError(ctx, err, "Identity sign-out failed", slog.String("user_id", userID))
		return fmt.Errorf("sign-out failed: %w", err)
	}
	s.LogInfo(ctx, "User signed out", slog.String("user_id", userID))
	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("email is required: %w", apperrors.ErrValidation)
	}
	if err := s.identity.RequestCredentialReset(ctx, email); err != nil {
		s.LogError(ctx, err, "Password reset request failed", slog.String("email", email))
		return fmt.Errorf("password reset failed: %w", err)
	}
	return nil
}
