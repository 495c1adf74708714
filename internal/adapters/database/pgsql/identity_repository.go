package pgsql

import (
	"context"
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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	identityIssuer     = "sismog-identity"
	resetTokenBytes    = 32
	resetTokenLifetime = time.Hour
	msgBadCredentials  = "Invalid login credentials"
)

// IdentityRepository keeps console credentials in the accounts table for
// deployments that run without the hosted identity service. Sessions are
// HS256 tokens signed with the configured secret.
type IdentityRepository struct {
	BaseRepository
	secret string
	expiry time.Duration
}

// NewIdentityRepository creates a new IdentityRepository
func NewIdentityRepository(db *pgxpool.Pool, secret string, expiry time.Duration) *IdentityRepository {
	return &IdentityRepository{BaseRepository: BaseRepository{Pool: db}, secret: secret, expiry: expiry}
}

// Ensure IdentityRepository implements portsrepo.IdentityClientFacade
var _ portsrepo.IdentityClientFacade = (*IdentityRepository)(nil)

func (r *IdentityRepository) SignIn(ctx context.Context, email, secret string) (*domain.Session, error) {
	var userID, hash string
	err := r.Pool.QueryRow(ctx,
		`SELECT user_id::text, password_hash FROM accounts WHERE email = $1`,
		normalizeEmail(email)).Scan(&userID, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewAppError(http.StatusBadRequest, msgBadCredentials, apperrors.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", translate(err))
	}
	if !utils.CheckPasswordHash(secret, hash) {
		return nil, apperrors.NewAppError(http.StatusBadRequest, msgBadCredentials, apperrors.ErrUnauthorized)
	}

	token, expiresAt, err := utils.GenerateJWT(userID, normalizeEmail(email), r.secret, r.expiry, identityIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return &domain.Session{UserID: userID, Email: normalizeEmail(email), AccessToken: token, ExpiresAt: expiresAt}, nil
}

// SignOut only checks the token; sessions are stateless and lapse on expiry.
func (r *IdentityRepository) SignOut(ctx context.Context, accessToken string) error {
	if _, err := utils.ParseAndValidateJWT(accessToken, r.secret); err != nil {
		return apperrors.NewAppError(http.StatusUnauthorized, "invalid session", apperrors.ErrUnauthorized)
	}
	return nil
}

// RequestCredentialReset stores a single-use reset token for email. Unknown
// addresses succeed silently so the endpoint cannot be used to probe accounts.
func (r *IdentityRepository) RequestCredentialReset(ctx context.Context, email string) error {
	raw, err := utils.GenerateSecureRandomString(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	tag, err := r.Pool.Exec(ctx,
		`INSERT INTO password_resets (token_hash, user_id, expires_at)
		 SELECT $1, user_id, $2 FROM accounts WHERE email = $3`,
		utils.HashResetToken(raw), time.Now().Add(resetTokenLifetime), normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", translate(err))
	}
	if tag.RowsAffected() > 0 {
		middleware.GetLoggerFromCtx(ctx).Info("Password reset issued", slog.String("email", normalizeEmail(email)))
	}
	return nil
}

// UpdateCredential accepts either a session token or an unexpired reset token.
func (r *IdentityRepository) UpdateCredential(ctx context.Context, accessToken, newSecret string) error {
	if len([]rune(newSecret)) < domain.MinPasswordLength {
		return apperrors.NewAppError(http.StatusUnprocessableEntity,
			fmt.Sprintf("Password should be at least %d characters", domain.MinPasswordLength), apperrors.ErrValidation)
	}
	hash, err := utils.HashPassword(newSecret)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if claims, err := utils.ParseAndValidateJWT(accessToken, r.secret); err == nil {
		return r.setHash(ctx, r.Pool, claims.Subject, hash)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var userID string
	err = tx.QueryRow(ctx,
		`UPDATE password_resets SET used_at = now()
		 WHERE token_hash = $1 AND used_at IS NULL AND expires_at > now()
		 RETURNING user_id::text`,
		utils.HashResetToken(accessToken)).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewAppError(http.StatusUnauthorized, "invalid session", apperrors.ErrUnauthorized)
	}
	if err != nil {
		return fmt.Errorf("failed to redeem reset token: %w", translate(err))
	}
	if err := r.setHash(ctx, tx, userID, hash); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// EnsureAccount creates the account for email when none exists. It is used to
// bootstrap the first console user.
func (r *IdentityRepository) EnsureAccount(ctx context.Context, email, password string) (bool, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	tag, err := r.Pool.Exec(ctx,
		`INSERT INTO accounts (user_id, email, password_hash) VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO NOTHING`,
		uuid.NewString(), normalizeEmail(email), hash)
	if err != nil {
		return false, fmt.Errorf("failed to create account: %w", translate(err))
	}
	return tag.RowsAffected() > 0, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *IdentityRepository) setHash(ctx context.Context, db execer, userID, hash string) error {
	tag, err := db.Exec(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = now() WHERE user_id::text = $2`, hash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(http.StatusNotFound, "User not found", apperrors.ErrNotFound)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
