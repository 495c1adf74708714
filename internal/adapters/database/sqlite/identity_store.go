package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	"github.com/SscSPs/sismog_console/internal/middleware"
	"github.com/SscSPs/sismog_console/internal/utils"
	"github.com/google/uuid"
)

const (
	identityIssuer     = "sismog-identity"
	resetTokenBytes    = 32
	resetTokenLifetime = time.Hour
	msgBadCredentials  = "Invalid login credentials"
	msgInvalidSession  = "invalid session"
)

// IdentityStore is the local identity service: bcrypt password hashes in the
// accounts table and HS256 session tokens.
type IdentityStore struct {
	*Store
	secret string
	expiry time.Duration
}

// NewIdentityStore creates a new IdentityStore
func NewIdentityStore(s *Store, secret string, expiry time.Duration) *IdentityStore {
	return &IdentityStore{Store: s, secret: secret, expiry: expiry}
}

var _ portsrepo.IdentityClientFacade = (*IdentityStore)(nil)

func (s *IdentityStore) SignIn(ctx context.Context, email, secret string) (*domain.Session, error) {
	email = normalizeEmail(email)
	var userID, hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, password_hash FROM accounts WHERE email = ?`, email).Scan(&userID, &hash)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !utils.CheckPasswordHash(secret, hash)) {
		return nil, apperrors.NewAppError(http.StatusBadRequest, msgBadCredentials, apperrors.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	token, expiresAt, err := utils.GenerateJWT(userID, email, s.secret, s.expiry, identityIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return &domain.Session{UserID: userID, Email: email, AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *IdentityStore) SignOut(_ context.Context, accessToken string) error {
	if _, err := utils.ParseAndValidateJWT(accessToken, s.secret); err != nil {
		return apperrors.NewAppError(http.StatusUnauthorized, msgInvalidSession, apperrors.ErrUnauthorized)
	}
	return nil
}

// RequestCredentialReset records a reset token for email. Unknown addresses
// succeed without writing anything.
func (s *IdentityStore) RequestCredentialReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	raw, err := utils.GenerateSecureRandomString(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO password_resets (token_hash, user_id, expires_at)
		 SELECT ?, user_id, ? FROM accounts WHERE email = ?`,
		utils.HashResetToken(raw), s.now().Add(resetTokenLifetime).UTC().Format(timestampLayout), email)
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		middleware.GetLoggerFromCtx(ctx).Info("Password reset issued", slog.String("email", email))
	}
	return nil
}

// UpdateCredential accepts a session token or an unused reset token.
func (s *IdentityStore) UpdateCredential(ctx context.Context, accessToken, newSecret string) error {
	if len([]rune(newSecret)) < domain.MinPasswordLength {
		return apperrors.NewAppError(http.StatusUnprocessableEntity,
			fmt.Sprintf("Password should be at least %d characters", domain.MinPasswordLength), apperrors.ErrValidation)
	}
	hash, err := utils.HashPassword(newSecret)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		userID := ""
		if claims, err := utils.ParseAndValidateJWT(accessToken, s.secret); err == nil {
			userID = claims.Subject
		} else {
			now := s.timestamp()
			err := tx.QueryRowContext(ctx,
				`UPDATE password_resets SET used_at = ?
				 WHERE token_hash = ? AND used_at IS NULL AND expires_at > ?
				 RETURNING user_id`,
				now, utils.HashResetToken(accessToken), now).Scan(&userID)
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NewAppError(http.StatusUnauthorized, msgInvalidSession, apperrors.ErrUnauthorized)
			}
			if err != nil {
				return fmt.Errorf("failed to redeem reset token: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE accounts SET password_hash = ?, updated_at = ? WHERE user_id = ?`, hash, s.timestamp(), userID)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperrors.NewAppError(http.StatusNotFound, "User not found", apperrors.ErrNotFound)
		}
		return nil
	})
}

// EnsureAccount creates the account for email unless one exists and reports
// whether it did.
func (s *IdentityStore) EnsureAccount(ctx context.Context, email, password string) (bool, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	now := s.timestamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (user_id, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?) ON CONFLICT (email) DO NOTHING`,
		uuid.NewString(), normalizeEmail(email), hash, now, now)
	if err != nil {
		return false, fmt.Errorf("failed to create account: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
