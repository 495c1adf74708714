package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
)

const preferRepresentation = "return=representation"

// CollectionClient implements portsrepo.CollectionClientFacade over PostgREST.
type CollectionClient struct {
	*Client
}

// NewCollectionClient creates a collection adapter on top of c.
func NewCollectionClient(c *Client) *CollectionClient {
	return &CollectionClient{Client: c}
}

var _ portsrepo.CollectionClientFacade = (*CollectionClient)(nil)

func (c *CollectionClient) Query(ctx context.Context, collection string, q portsrepo.Query) ([]domain.Record, error) {
	params := url.Values{}
	if q.Select != "" {
		params.Set("select", q.Select)
	}
	for _, f := range q.Filters {
		params.Add(f.Field, "eq."+fmt.Sprint(f.Value))
	}
	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, o := range q.Order {
			dir := "asc"
			if o.Descending {
				dir = "desc"
			}
			parts[i] = o.Field + "." + dir
		}
		params.Set("order", strings.Join(parts, ","))
	}

	var rows []domain.Record
	err := c.do(ctx, request{method: http.MethodGet, path: restPath + collection, query: params}, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *CollectionClient) Insert(ctx context.Context, collection string, rows ...domain.Record) ([]domain.Record, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	var created []domain.Record
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   restPath + collection,
		body:   rows,
		prefer: preferRepresentation,
	}, &created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *CollectionClient) Update(ctx context.Context, collection string, id string, patch domain.Record) error {
	var updated []domain.Record
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   restPath + collection,
		query:  byID(id),
		body:   patch,
		prefer: preferRepresentation,
	}, &updated)
	if err != nil {
		return err
	}
	if len(updated) == 0 {
		return notFound(collection, id)
	}
	return nil
}

func (c *CollectionClient) Delete(ctx context.Context, collection string, id string) error {
	var deleted []domain.Record
	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   restPath + collection,
		query:  byID(id),
		prefer: preferRepresentation,
	}, &deleted)
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		return notFound(collection, id)
	}
	return nil
}

func byID(id string) url.Values {
	return url.Values{domain.FieldID: []string{"eq." + id}}
}

// An empty representation means no visible row matched, either because it
// is gone or because row-level security hides it.
func notFound(collection, id string) error {
	return apperrors.NewAppError(http.StatusNotFound,
		fmt.Sprintf("%s record %s no longer exists", collection, id), apperrors.ErrNotFound)
}
