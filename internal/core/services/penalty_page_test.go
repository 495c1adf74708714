package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sismog_console/internal/core/ports/services"
	"github.com/SscSPs/sismog_console/internal/core/resource"
	"github.com/SscSPs/sismog_console/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func penaltyRows() []domain.Record {
	return []domain.Record{
		{
			"id": float64(10), "date": "2024-05-02", "type": "Advertência", "reason": "Atraso recorrente",
			"amount": nil, "file_ref": "penalties/10/aviso.pdf", "responsible": "Carla",
			"employee_id": float64(4), "company_id": float64(1), "created_at": "2024-05-02T12:00:00.123456+00:00",
			"employee": map[string]any{"name": "João Lima", "title": "Motorista"},
			"company":  map[string]any{"name": "Acme Ltda"},
		},
		{
			"id": float64(9), "date": "2024-04-20", "type": "Multa", "reason": "Dano ao veículo",
			"amount": "350.75", "file_ref": nil, "responsible": "Carla",
			"employee_id": float64(5), "company_id": float64(2), "created_at": "2024-04-20T08:00:00+00:00",
			"employee": nil,
			"company":  map[string]any{"name": "Beta Comércio"},
		},
	}
}

type PenaltyPageTestSuite struct {
	suite.Suite
	collections *MockCollectionClient
	signer      *MockAttachmentSigner
	penalties   portssvc.PenaltySvc
	ws          *portssvc.Workspace
	ctx         context.Context
}

func (s *PenaltyPageTestSuite) SetupTest() {
	s.collections = new(MockCollectionClient)
	s.signer = new(MockAttachmentSigner)
	s.ctx = context.Background()
	s.penalties = services.NewPenaltyService(s.signer, 15*time.Minute)
	s.ws = services.NewWorkspaceService(portsrepo.RepositoryProvider{
		Collections: s.collections,
		Identity:    new(MockIdentityClient),
		Attachments: s.signer,
	}).Open(s.ctx, testSession)
	s.collections.On("Query", mock.Anything, domain.CollectionPenalties, mock.MatchedBy(func(q portsrepo.Query) bool {
		return q.Select == "*,employee:employees(name,title),company:companies(name)"
	})).Return(penaltyRows(), nil)
	s.Require().NoError(s.ws.Penalties.Mount(s.ctx))
}

func (s *PenaltyPageTestSuite) TestMount_DecodesJoinsAndAmounts() {
	items := s.ws.Penalties.View().Items

	s.Require().Len(items, 2)
	s.Equal("10", items[0].ID)
	s.Equal("4", items[0].EmployeeID)
	s.Require().NotNil(items[0].Employee)
	s.Equal("Motorista", items[0].Employee.Title)
	s.Nil(items[0].Amount)
	s.True(items[0].HasAttachment())
	s.Nil(items[1].Employee)
	s.Require().NotNil(items[1].Amount)
	s.True(decimal.RequireFromString("350.75").Equal(*items[1].Amount))
	s.False(items[1].HasAttachment())
}

func (s *PenaltyPageTestSuite) TestSearch_MatchesJoinedNames() {
	s.ws.Penalties.SetSearch("joão")
	s.Len(s.ws.Penalties.Visible(), 1)

	s.ws.Penalties.SetSearch("beta")
	items := s.ws.Penalties.Visible()
	s.Require().Len(items, 1)
	s.Equal("9", items[0].ID)

	s.ws.Penalties.SetSearch("carla")
	s.Len(s.ws.Penalties.Visible(), 2)
}

func (s *PenaltyPageTestSuite) TestFormActionsAreUnsupported() {
	s.ErrorIs(s.ws.Penalties.OpenCreate(), resource.ErrUnsupported)
	s.ErrorIs(s.ws.Penalties.OpenEdit("10"), resource.ErrUnsupported)
	s.ErrorIs(s.ws.Penalties.Submit(s.ctx), resource.ErrUnsupported)
}

func (s *PenaltyPageTestSuite) TestDeleteFailure_ClosesGuardAndShowsError() {
	s.collections.On("Delete", mock.Anything, domain.CollectionPenalties, "10").
		Return(apperrors.NewAppError(403, "permission denied for table penalties", nil)).Once()

	s.Require().NoError(s.ws.Penalties.RequestDelete("10"))
	err := s.ws.Penalties.ConfirmDelete(s.ctx)

	s.Error(err)
	view := s.ws.Penalties.View()
	s.False(view.Delete.Open)
	s.Equal(resource.FeedbackError, view.Feedback.Kind)
	s.Equal("permission denied for table penalties", view.Feedback.Message)
	s.Len(view.Items, 2)
}

func (s *PenaltyPageTestSuite) TestAttachmentURL_SignsFileRef() {
	s.signer.On("SignedURL", mock.Anything, "penalties/10/aviso.pdf", 15*time.Minute).
		Return("https://blob.sismog.test/penalties/10/aviso.pdf?sig=x", nil).Once()

	url, err := s.penalties.AttachmentURL(s.ctx, s.ws, "10")

	s.Require().NoError(err)
	s.Equal("https://blob.sismog.test/penalties/10/aviso.pdf?sig=x", url)
}

func (s *PenaltyPageTestSuite) TestAttachmentURL_Errors() {
	_, err := s.penalties.AttachmentURL(s.ctx, s.ws, "9")
	s.ErrorIs(err, services.ErrNoAttachment)

	_, err = s.penalties.AttachmentURL(s.ctx, s.ws, "404")
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.signer.On("SignedURL", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("no credentials")).Once()
	_, err = s.penalties.AttachmentURL(s.ctx, s.ws, "10")
	s.ErrorContains(err, "no credentials")
}

func TestPenaltyPageTestSuite(t *testing.T) {
	suite.Run(t, new(PenaltyPageTestSuite))
}
