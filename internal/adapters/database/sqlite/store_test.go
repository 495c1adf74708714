package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	"github.com/SscSPs/sismog_console/internal/utils"
	"github.com/SscSPs/sismog_console/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSecret = "sqlite-test-secret"

type StoreTestSuite struct {
	suite.Suite
	ctx         context.Context
	db          *sql.DB
	store       *Store
	collections *CollectionStore
	identity    *IdentityStore
	clock       time.Time
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	db, err := database.OpenSQLite(s.ctx, ":memory:", slog.Default())
	s.Require().NoError(err)
	s.db = db

	s.store, err = NewStore(s.ctx, db)
	s.Require().NoError(err)
	s.clock = time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time {
		s.clock = s.clock.Add(time.Second)
		return s.clock
	}
	s.collections = NewCollectionStore(s.store)
	s.identity = NewIdentityStore(s.store, testSecret, time.Hour)
}

func (s *StoreTestSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) insertCompany(name string) string {
	rows, err := s.collections.Insert(s.ctx, domain.CollectionCompanies,
		domain.Record{"name": name, "tax_regime": "Lucro Real", "active": true})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	id, ok := rows[0].ID()
	s.Require().True(ok)
	return id
}

func (s *StoreTestSuite) TestInsert_ReturnsStoredRows() {
	rows, err := s.collections.Insert(s.ctx, domain.CollectionCompanies,
		domain.Record{"name": "Acme"},
		domain.Record{"name": "Globex"})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)

	s.Equal("1", rows[0]["id"])
	s.Equal("2", rows[1]["id"])
	s.Equal("2024-05-02T09:00:01.000000Z", rows[0]["created_at"])
}

func (s *StoreTestSuite) TestInsert_RejectsUnwritableColumns() {
	_, err := s.collections.Insert(s.ctx, domain.CollectionCompanies, domain.Record{"id": "5", "name": "Acme"})
	s.ErrorIs(err, apperrors.ErrValidation)

	got, err := s.collections.Query(s.ctx, domain.CollectionCompanies, portsrepo.Query{})
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *StoreTestSuite) TestInsert_IsAllOrNothing() {
	companyID := s.insertCompany("Acme")

	_, err := s.collections.Insert(s.ctx, domain.CollectionEmployees,
		domain.Record{"name": "Ana", "company_id": companyID},
		domain.Record{"name": "Bruno", "company_id": "999"})
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Contains(apperrors.Message(err), "employees_company_id_fkey")

	got, err := s.collections.Query(s.ctx, domain.CollectionEmployees, portsrepo.Query{})
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *StoreTestSuite) TestQuery_FiltersOrdersAndJoins() {
	acme := s.insertCompany("Acme")
	globex := s.insertCompany("Globex")
	_, err := s.collections.Insert(s.ctx, domain.CollectionEmployees,
		domain.Record{"name": "Ana", "title": "Analyst", "company_id": acme, "active": true},
		domain.Record{"name": "Bruno", "title": "Driver", "company_id": globex, "active": false},
		domain.Record{"name": "Carla", "title": "Manager", "company_id": acme, "active": true})
	s.Require().NoError(err)

	got, err := s.collections.Query(s.ctx, domain.CollectionEmployees, portsrepo.Query{
		Select:  "id,name,title,company_id,active,created_at,company:companies(name)",
		Filters: []portsrepo.Filter{{Field: "active", Value: true}},
		Order:   []portsrepo.Order{{Field: "created_at", Descending: true}},
	})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("Carla", got[0]["name"])
	s.Equal("Ana", got[1]["name"])
	s.Equal(domain.Record{"name": "Acme"}, got[0]["company"])
}

func (s *StoreTestSuite) TestQuery_WithoutSelectSkipsJoins() {
	acme := s.insertCompany("Acme")
	_, err := s.collections.Insert(s.ctx, domain.CollectionEmployees, domain.Record{"name": "Ana", "company_id": acme})
	s.Require().NoError(err)

	got, err := s.collections.Query(s.ctx, domain.CollectionEmployees, portsrepo.Query{})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	_, joined := got[0]["company"]
	s.False(joined)
}

func (s *StoreTestSuite) TestQuery_UnknownFieldIsValidationError() {
	_, err := s.collections.Query(s.ctx, domain.CollectionCompanies, portsrepo.Query{
		Filters: []portsrepo.Filter{{Field: "owner", Value: "x"}},
	})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.collections.Query(s.ctx, "journals", portsrepo.Query{})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StoreTestSuite) TestUpdate_MergesPatch() {
	id := s.insertCompany("Acme")

	s.Require().NoError(s.collections.Update(s.ctx, domain.CollectionCompanies, id, domain.Record{"name": "Acme Ltda"}))

	got, err := s.collections.Query(s.ctx, domain.CollectionCompanies, portsrepo.Query{
		Filters: []portsrepo.Filter{{Field: "id", Value: id}},
	})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("Acme Ltda", got[0]["name"])
	s.Equal("Lucro Real", got[0]["tax_regime"])
	s.Equal(true, got[0]["active"])
}

func (s *StoreTestSuite) TestUpdate_MissingRowIsNotFound() {
	err := s.collections.Update(s.ctx, domain.CollectionCompanies, "42", domain.Record{"name": "x"})
	s.ErrorIs(err, apperrors.ErrNotFound)

	err = s.collections.Update(s.ctx, domain.CollectionCompanies, "not-a-number", domain.Record{"name": "x"})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestUniqueEmail() {
	_, err := s.collections.Insert(s.ctx, domain.CollectionProfiles, domain.Record{"email": "ana@sismog.test", "name": "Ana"})
	s.Require().NoError(err)
	rows, err := s.collections.Insert(s.ctx, domain.CollectionProfiles, domain.Record{"email": "bruno@sismog.test"})
	s.Require().NoError(err)
	brunoID, _ := rows[0].ID()

	_, err = s.collections.Insert(s.ctx, domain.CollectionProfiles, domain.Record{"email": "ana@sismog.test"})
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.Equal(`duplicate key value violates unique constraint "profiles_email_key"`, apperrors.Message(err))

	err = s.collections.Update(s.ctx, domain.CollectionProfiles, brunoID, domain.Record{"email": "ana@sismog.test"})
	s.ErrorIs(err, apperrors.ErrDuplicate)

	s.NoError(s.collections.Update(s.ctx, domain.CollectionProfiles, brunoID, domain.Record{"email": "bruno@sismog.test", "name": "Bruno"}))
}

func (s *StoreTestSuite) TestDelete() {
	acme := s.insertCompany("Acme")
	empty := s.insertCompany("Empty")
	_, err := s.collections.Insert(s.ctx, domain.CollectionEmployees, domain.Record{"name": "Ana", "company_id": acme})
	s.Require().NoError(err)

	err = s.collections.Delete(s.ctx, domain.CollectionCompanies, acme)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Contains(apperrors.Message(err), `violates foreign key constraint "employees_company_id_fkey"`)

	s.NoError(s.collections.Delete(s.ctx, domain.CollectionCompanies, empty))
	s.ErrorIs(s.collections.Delete(s.ctx, domain.CollectionCompanies, empty), apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestIdentity_SignInAndPasswordChange() {
	created, err := s.identity.EnsureAccount(s.ctx, " Admin@Sismog.test ", "first-pass")
	s.Require().NoError(err)
	s.True(created)
	created, err = s.identity.EnsureAccount(s.ctx, "admin@sismog.test", "other")
	s.Require().NoError(err)
	s.False(created)

	_, err = s.identity.SignIn(s.ctx, "admin@sismog.test", "wrong")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.Equal(msgBadCredentials, apperrors.Message(err))

	session, err := s.identity.SignIn(s.ctx, "ADMIN@sismog.test", "first-pass")
	s.Require().NoError(err)
	s.Equal("admin@sismog.test", session.Email)
	s.NotEmpty(session.UserID)

	err = s.identity.UpdateCredential(s.ctx, session.AccessToken, "abc")
	s.ErrorIs(err, apperrors.ErrValidation)

	s.Require().NoError(s.identity.UpdateCredential(s.ctx, session.AccessToken, "second-pass"))
	_, err = s.identity.SignIn(s.ctx, "admin@sismog.test", "first-pass")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	_, err = s.identity.SignIn(s.ctx, "admin@sismog.test", "second-pass")
	s.NoError(err)

	s.NoError(s.identity.SignOut(s.ctx, session.AccessToken))
	s.ErrorIs(s.identity.SignOut(s.ctx, "garbage"), apperrors.ErrUnauthorized)
}

func (s *StoreTestSuite) TestIdentity_ResetToken() {
	_, err := s.identity.EnsureAccount(s.ctx, "ana@sismog.test", "first-pass")
	s.Require().NoError(err)

	s.Require().NoError(s.identity.RequestCredentialReset(s.ctx, "ana@sismog.test"))
	s.Require().NoError(s.identity.RequestCredentialReset(s.ctx, "nobody@sismog.test"))
	var pending int
	s.Require().NoError(s.db.QueryRow(`SELECT COUNT(*) FROM password_resets`).Scan(&pending))
	s.Equal(1, pending)

	// The mailed token is never stored, so plant a known one.
	var userID string
	s.Require().NoError(s.db.QueryRow(`SELECT user_id FROM accounts WHERE email = ?`, "ana@sismog.test").Scan(&userID))
	_, err = s.db.Exec(`INSERT INTO password_resets (token_hash, user_id, expires_at) VALUES (?, ?, ?)`,
		utils.HashResetToken("raw-token"), userID, "2999-01-01T00:00:00.000000Z")
	s.Require().NoError(err)

	s.Require().NoError(s.identity.UpdateCredential(s.ctx, "raw-token", "reset-pass"))
	_, err = s.identity.SignIn(s.ctx, "ana@sismog.test", "reset-pass")
	s.NoError(err)

	err = s.identity.UpdateCredential(s.ctx, "raw-token", "again-pass")
	s.ErrorIs(err, apperrors.ErrUnauthorized, "reset tokens are single use")
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, compare("2", "10"))
	assert.Equal(t, 1, compare("b", "a"))
	assert.Equal(t, 0, compare(int64(3), "3"))
}

func TestMatches(t *testing.T) {
	rec := domain.Record{"email": "ana@sismog.test", "active": true, "file_ref": nil}

	assert.True(t, matches(rec, nil))
	assert.True(t, matches(rec, []portsrepo.Filter{{Field: "email", Value: "ana@sismog.test"}}))
	assert.True(t, matches(rec, []portsrepo.Filter{{Field: "file_ref", Value: nil}}))
	assert.False(t, matches(rec, []portsrepo.Filter{{Field: "active", Value: false}}))
	assert.False(t, matches(rec, []portsrepo.Filter{{Field: "missing", Value: "x"}}))
}

func TestParseID(t *testing.T) {
	id, ok := parseID("12")
	require.True(t, ok)
	assert.Equal(t, int64(12), id)

	_, ok = parseID("0")
	assert.False(t, ok)
	_, ok = parseID("abc")
	assert.False(t, ok)
}
