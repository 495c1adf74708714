package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
)

// IdentityClient implements portsrepo.IdentityClientFacade over GoTrue.
type IdentityClient struct {
	*Client
}

// NewIdentityClient creates an identity adapter on top of c.
func NewIdentityClient(c *Client) *IdentityClient {
	return &IdentityClient{Client: c}
}

var _ portsrepo.IdentityClientFacade = (*IdentityClient)(nil)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (c *IdentityClient) SignIn(ctx context.Context, email, secret string) (*domain.Session, error) {
	var tok tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "token",
		query:  url.Values{"grant_type": []string{"password"}},
		body:   map[string]string{"email": email, "password": secret},
	}, &tok)
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" || tok.User.ID == "" {
		return nil, apperrors.NewAppError(http.StatusBadGateway, "identity service returned an incomplete session", apperrors.ErrUnauthorized)
	}
	return &domain.Session{
		UserID:      tok.User.ID,
		Email:       tok.User.Email,
		AccessToken: tok.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
	}, nil
}

func (c *IdentityClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, request{method: http.MethodPost, path: authPath + "logout", token: accessToken}, nil)
}

func (c *IdentityClient) RequestCredentialReset(ctx context.Context, email string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "recover",
		body:   map[string]string{"email": email},
	}, nil)
}

func (c *IdentityClient) UpdateCredential(ctx context.Context, accessToken, newSecret string) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   authPath + "user",
		body:   map[string]string{"password": newSecret},
		token:  accessToken,
	}, nil)
}
