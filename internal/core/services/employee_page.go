package services

import (
	"context"

	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sismog_console/internal/core/ports/services"
	"github.com/SscSPs/sismog_console/internal/core/resource"
)

func newEmployeePage(d *pageDeps) *portssvc.EmployeePage {
	return resource.NewController(resource.Config[domain.Employee, domain.Employee]{
		Page: PageEmployees,
		Fetch: fetcher[domain.Employee](d, domain.CollectionEmployees, portsrepo.Query{
			Select: "id,name,title,company_id,active,created_at,company:companies(name)",
			Order:  newestFirst(),
		}),
		IDOf: func(e domain.Employee) string { return e.ID },
		Fields: []resource.FieldFunc[domain.Employee]{
			resource.Text(func(e domain.Employee) string { return e.Name }),
			resource.Text(func(e domain.Employee) string { return e.Title }),
			domain.Employee.CompanyName,
		},
		NewDraft: domain.NewEmployeeDraft,
		DraftOf: func(e domain.Employee) domain.Employee {
			e.Company = nil
			return e
		},
		SetField: fieldSetter[domain.Employee]("name", "title", "company_id", "active"),
		Validate: validateEmployeeDraft,
		Persist: func(ctx context.Context, e domain.Employee) error {
			return d.saveRecord(ctx, domain.CollectionEmployees, e.ID, e.MutableFields())
		},
		Remove: func(ctx context.Context, e domain.Employee) error {
			return d.deleteRecord(ctx, domain.CollectionEmployees, e.ID)
		},
		Messages: resource.DefaultMessages("Employee"),
		Observer: d.observer,
	}, d.feedback)
}
