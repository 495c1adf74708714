package repositories

import (
	"context"

	"github.com/SscSPs/sismog_console/internal/core/domain"
)

// Filter is an equality clause on one field.
type Filter struct {
	Field string
	Value any
}

// Order is an ordering clause on one field.
type Order struct {
	Field      string
	Descending bool
}

// Query describes a filtered, ordered read. Select may name joined relations
// using the data service's embedding syntax, e.g. "*,company:companies(name)";
// adapters that resolve joins themselves may ignore it.
type Query struct {
	Select  string
	Filters []Filter
	Order   []Order
}

// CollectionReader defines read operations over named collections.
type CollectionReader interface {
	// Query returns the rows of collection matching q.
	Query(ctx context.Context, collection string, q Query) ([]domain.Record, error)
}

// CollectionWriter defines write operations over named collections.
type CollectionWriter interface {
	// Insert persists one or more rows and returns them as stored.
	Insert(ctx context.Context, collection string, rows ...domain.Record) ([]domain.Record, error)

	// Update applies a partial field set to the row with the given identifier.
	Update(ctx context.Context, collection string, id string, patch domain.Record) error
}

// CollectionLifecycleManager defines destructive operations.
type CollectionLifecycleManager interface {
	// Delete removes the row with the given identifier. There is no soft delete.
	Delete(ctx context.Context, collection string, id string) error
}

// CollectionClientFacade combines all collection operations.
type CollectionClientFacade interface {
	CollectionReader
	CollectionWriter
	CollectionLifecycleManager
}
