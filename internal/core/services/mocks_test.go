package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock CollectionClient ---
type MockCollectionClient struct {
	mock.Mock
}

func (m *MockCollectionClient) Query(ctx context.Context, collection string, q portsrepo.Query) ([]domain.Record, error) {
	args := m.Called(ctx, collection, q)
	var rows []domain.Record
	if args.Get(0) != nil {
		rows = args.Get(0).([]domain.Record)
	}
	return rows, args.Error(1)
}

func (m *MockCollectionClient) Insert(ctx context.Context, collection string, rows ...domain.Record) ([]domain.Record, error) {
	args := m.Called(ctx, collection, rows)
	var out []domain.Record
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.Record)
	}
	return out, args.Error(1)
}

func (m *MockCollectionClient) Update(ctx context.Context, collection string, id string, patch domain.Record) error {
	args := m.Called(ctx, collection, id, patch)
	return args.Error(0)
}

func (m *MockCollectionClient) Delete(ctx context.Context, collection string, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

// --- Mock IdentityClient ---
type MockIdentityClient struct {
	mock.Mock
}

func (m *MockIdentityClient) SignIn(ctx context.Context, email, secret string) (*domain.Session, error) {
	args := m.Called(ctx, email, secret)
	var session *domain.Session
	if args.Get(0) != nil {
		session = args.Get(0).(*domain.Session)
	}
	return session, args.Error(1)
}

func (m *MockIdentityClient) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *MockIdentityClient) RequestCredentialReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockIdentityClient) UpdateCredential(ctx context.Context, accessToken, newSecret string) error {
	args := m.Called(ctx, accessToken, newSecret)
	return args.Error(0)
}

// --- Mock AttachmentSigner ---
type MockAttachmentSigner struct {
	mock.Mock
}

func (m *MockAttachmentSigner) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

// --- Recorder ---
type recorderStub struct {
	ops     []string
	current int
}

func (r *recorderStub) RecordConsoleOperation(page, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.ops = append(r.ops, page+":"+operation+":"+status)
}

func (r *recorderStub) SetActiveWorkspaces(n int) { r.current = n }
