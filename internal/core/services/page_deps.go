package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	"github.com/SscSPs/sismog_console/internal/core/resource"
)

// pageDeps is what every page definition of one workspace is built from.
type pageDeps struct {
	BaseService
	collections portsrepo.CollectionClientFacade
	observer    resource.Observer
	feedback    *resource.Feedback
	session     domain.Session
}

// bind attaches the session's identity token to ctx.
func (d *pageDeps) bind(ctx context.Context) context.Context {
	return portsrepo.WithAccessToken(ctx, d.session.AccessToken)
}

// fetcher queries collection and decodes the rows into T.
func fetcher[T any](d *pageDeps, collection string, q portsrepo.Query) resource.Fetcher[T] {
	return func(ctx context.Context) ([]T, error) {
		rows, err := d.collections.Query(d.bind(ctx), collection, q)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", collection, err)
		}
		return decodeRecords[T](ctx, collection, rows)
	}
}

// saveRecord updates the row id with fields, or inserts fields when id is
// empty. Exactly one collaborator call is made either way.
func (d *pageDeps) saveRecord(ctx context.Context, collection, id string, fields domain.Record) error {
	ctx = d.bind(ctx)
	if id != "" {
		if err := d.collections.Update(ctx, collection, id, fields); err != nil {
			return fmt.Errorf("failed to update %s %s: %w", collection, id, err)
		}
		d.LogInfo(ctx, "Record updated", slog.String("collection", collection), slog.String("id", id))
		return nil
	}
	created, err := d.collections.Insert(ctx, collection, fields)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	if len(created) > 0 {
		newID, _ := created[0].ID()
		d.LogInfo(ctx, "Record created", slog.String("collection", collection), slog.String("id", newID))
	}
	return nil
}

// deleteRecord removes the row id.
func (d *pageDeps) deleteRecord(ctx context.Context, collection, id string) error {
	ctx = d.bind(ctx)
	if err := d.collections.Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", collection, id, err)
	}
	d.LogInfo(ctx, "Record deleted", slog.String("collection", collection), slog.String("id", id))
	return nil
}

func newestFirst() []portsrepo.Order {
	return []portsrepo.Order{{Field: "created_at", Descending: true}}
}
