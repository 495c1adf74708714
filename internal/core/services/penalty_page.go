package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sismog_console/internal/core/ports/services"
	"github.com/SscSPs/sismog_console/internal/core/resource"
)

// Penalties are listed and deleted only; they are issued elsewhere.
func newPenaltyPage(d *pageDeps) *portssvc.PenaltyPage {
	return resource.NewController(resource.Config[domain.Penalty, resource.NoDraft]{
		Page: PagePenalties,
		Fetch: fetcher[domain.Penalty](d, domain.CollectionPenalties, portsrepo.Query{
			Select: "*,employee:employees(name,title),company:companies(name)",
			Order:  newestFirst(),
		}),
		IDOf: func(p domain.Penalty) string { return p.ID },
		Fields: []resource.FieldFunc[domain.Penalty]{
			resource.Text(func(p domain.Penalty) string { return p.Reason }),
			resource.Text(func(p domain.Penalty) string { return p.Type }),
			resource.Text(func(p domain.Penalty) string { return p.Responsible }),
			domain.Penalty.EmployeeName,
			domain.Penalty.CompanyName,
		},
		Remove: func(ctx context.Context, p domain.Penalty) error {
			return d.deleteRecord(ctx, domain.CollectionPenalties, p.ID)
		},
		Messages: resource.DefaultMessages("Penalty"),
		Observer: d.observer,
	}, d.feedback)
}

// ErrNoAttachment is returned for penalties issued without a file.
var ErrNoAttachment = fmt.Errorf("penalty has no attachment: %w", apperrors.ErrNotFound)

type penaltyService struct {
	BaseService
	signer portsrepo.AttachmentSigner
	expiry time.Duration
}

// NewPenaltyService creates the service resolving penalty attachments.
func NewPenaltyService(signer portsrepo.AttachmentSigner, expiry time.Duration) portssvc.PenaltySvc {
	return &penaltyService{BaseService: component("penalties"), signer: signer, expiry: expiry}
}

// AttachmentURL signs the file of a penalty currently listed on the page.
func (s *penaltyService) AttachmentURL(ctx context.Context, ws *portssvc.Workspace, penaltyID string) (string, error) {
	penalty, err := ws.Penalties.Find(penaltyID)
	if err != nil {
		return "", err
	}
	if !penalty.HasAttachment() {
		return "", ErrNoAttachment
	}
	if s.signer == nil {
		return "", fmt.Errorf("attachment storage is not configured: %w", apperrors.ErrNotFound)
	}
	url, err := s.signer.SignedURL(ctx, *penalty.FileRef, s.expiry)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign attachment URL", slog.String("penalty_id", penaltyID))
		return "", fmt.Errorf("failed to sign attachment: %w", err)
	}
	return url, nil
}
