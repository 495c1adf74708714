package services

import (
	"context"

	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sismog_console/internal/core/ports/services"
	"github.com/SscSPs/sismog_console/internal/core/resource"
)

// Page names, used in routes, logs and metrics.
const (
	PageCompanies = "companies"
	PageEmployees = "employees"
	PagePenalties = "penalties"
	PageSettings  = "settings"
)

func newCompanyPage(d *pageDeps) *portssvc.CompanyPage {
	return resource.NewController(resource.Config[domain.Company, domain.Company]{
		Page: PageCompanies,
		Fetch: fetcher[domain.Company](d, domain.CollectionCompanies, portsrepo.Query{
			Select: "id,name,tax_regime,active,created_at",
			Order:  newestFirst(),
		}),
		IDOf: func(c domain.Company) string { return c.ID },
		Fields: []resource.FieldFunc[domain.Company]{
			resource.Text(func(c domain.Company) string { return c.Name }),
		},
		NewDraft: domain.NewCompanyDraft,
		DraftOf:  func(c domain.Company) domain.Company { return c },
		SetField: fieldSetter[domain.Company]("name", "tax_regime", "active"),
		Validate: validateCompanyDraft,
		Persist: func(ctx context.Context, c domain.Company) error {
			return d.saveRecord(ctx, domain.CollectionCompanies, c.ID, c.MutableFields())
		},
		Remove: func(ctx context.Context, c domain.Company) error {
			return d.deleteRecord(ctx, domain.CollectionCompanies, c.ID)
		},
		Messages: resource.Messages{
			SavedTitle:     "Company saved",
			SavedMessage:   "Company saved successfully.",
			DeletedTitle:   "Company deleted",
			DeletedMessage: "Company deleted successfully.",
			ErrorTitle:     "Error",
			PartialTitle:   "Partially saved",
		},
		Observer: d.observer,
	}, d.feedback)
}
