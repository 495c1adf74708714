package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/SscSPs/sismog_console/internal/adapters/database/schema"
	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CollectionRepository serves the console collections straight from
// PostgreSQL. Rows come back shaped like the hosted data service's: ids and
// numerics as text, joined relations nested under their alias.
type CollectionRepository struct {
	BaseRepository
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure CollectionRepository implements portsrepo.CollectionClientFacade
var _ portsrepo.CollectionClientFacade = (*CollectionRepository)(nil)

func (r *CollectionRepository) Query(ctx context.Context, collection string, q portsrepo.Query) ([]domain.Record, error) {
	coll, err := schema.Lookup(collection)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusBadRequest, err.Error(), apperrors.ErrValidation)
	}

	relations := coll.Requested(q.Select)
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(selectList(coll))
	for i, rel := range relations {
		for _, f := range rel.Fields {
			fmt.Fprintf(&sb, ", %s.%s AS %s", joinAlias(i), quote(f), quote(rel.Alias+"."+f))
		}
	}
	fmt.Fprintf(&sb, " FROM %s AS t", quote(coll.Name))
	for i, rel := range relations {
		fmt.Fprintf(&sb, " LEFT JOIN %s AS %s ON %s.id = t.%s", quote(rel.Collection), joinAlias(i), joinAlias(i), quote(rel.ForeignKey))
	}

	args := make([]any, 0, len(q.Filters))
	for i, f := range q.Filters {
		col, ok := coll.Column(f.Field)
		if !ok {
			return nil, apperrors.NewAppError(http.StatusBadRequest, fmt.Sprintf("unknown filter field %q", f.Field), apperrors.ErrValidation)
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(&sb, "%s = $%d", columnExpr(col), i+1)
		args = append(args, filterValue(col, f.Value))
	}

	for i, o := range q.Order {
		if _, ok := coll.Column(o.Field); !ok {
			return nil, apperrors.NewAppError(http.StatusBadRequest, fmt.Sprintf("unknown order field %q", o.Field), apperrors.ErrValidation)
		}
		if i == 0 {
			sb.WriteString(" ORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString("t." + quote(o.Field))
		if o.Descending {
			sb.WriteString(" DESC")
		}
	}

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, translate(err))
	}
	flat, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", collection, translate(err))
	}

	out := make([]domain.Record, 0, len(flat))
	for _, row := range flat {
		out = append(out, nest(row, relations))
	}
	return out, nil
}

// Insert stores all rows in one transaction; either every row is written or none.
func (r *CollectionRepository) Insert(ctx context.Context, collection string, rows ...domain.Record) ([]domain.Record, error) {
	coll, err := schema.Lookup(collection)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusBadRequest, err.Error(), apperrors.ErrValidation)
	}
	for _, row := range rows {
		if err := coll.Writable(row); err != nil {
			return nil, apperrors.NewAppError(http.StatusBadRequest, err.Error(), apperrors.ErrValidation)
		}
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	stored := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		fields := sortedFields(row)
		placeholders := make([]string, len(fields))
		args := make([]any, len(fields))
		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = quote(f)
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = row[f]
		}
		query := fmt.Sprintf("INSERT INTO %s AS t (%s) VALUES (%s) RETURNING %s",
			quote(coll.Name), strings.Join(quoted, ", "), strings.Join(placeholders, ", "), selectList(coll))
		if len(fields) == 0 {
			query = fmt.Sprintf("INSERT INTO %s AS t DEFAULT VALUES RETURNING %s", quote(coll.Name), selectList(coll))
		}

		res, err := tx.Query(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to insert into %s: %w", collection, translate(err))
		}
		rec, err := pgx.CollectOneRow(res, pgx.RowToMap)
		if err != nil {
			return nil, fmt.Errorf("failed to insert into %s: %w", collection, translate(err))
		}
		stored = append(stored, domain.Record(rec))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *CollectionRepository) Update(ctx context.Context, collection string, id string, patch domain.Record) error {
	coll, err := schema.Lookup(collection)
	if err != nil {
		return apperrors.NewAppError(http.StatusBadRequest, err.Error(), apperrors.ErrValidation)
	}
	if len(patch) == 0 {
		return apperrors.NewAppError(http.StatusBadRequest, "nothing to update", apperrors.ErrValidation)
	}
	if err := coll.Writable(patch); err != nil {
		return apperrors.NewAppError(http.StatusBadRequest, err.Error(), apperrors.ErrValidation)
	}

	fields := sortedFields(patch)
	sets := make([]string, len(fields))
	args := make([]any, 0, len(fields)+1)
	for i, f := range fields {
		sets[i] = fmt.Sprintf("%s = $%d", quote(f), i+1)
		args = append(args, patch[f])
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id::text = $%d", quote(coll.Name), strings.Join(sets, ", "), len(args))

	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", collection, id, translate(err))
	}
	if tag.RowsAffected() == 0 {
		return notFound(collection, id)
	}
	return nil
}

func (r *CollectionRepository) Delete(ctx context.Context, collection string, id string) error {
	coll, err := schema.Lookup(collection)
	if err != nil {
		return apperrors.NewAppError(http.StatusBadRequest, err.Error(), apperrors.ErrValidation)
	}

	tag, err := r.Pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id::text = $1", quote(coll.Name)), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", collection, id, translate(err))
	}
	if tag.RowsAffected() == 0 {
		return notFound(collection, id)
	}
	return nil
}

func notFound(collection, id string) error {
	return apperrors.NewAppError(http.StatusNotFound, fmt.Sprintf("%s row %s not found", collection, id), apperrors.ErrNotFound)
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func joinAlias(i int) string {
	return fmt.Sprintf("r%d", i)
}

// columnExpr renders ids, dates and numerics as text so the rows decode the
// same way regardless of backend.
func columnExpr(col schema.Column) string {
	switch col.Kind {
	case schema.KindID, schema.KindDate, schema.KindNumeric:
		return "t." + quote(col.Name) + "::text"
	}
	return "t." + quote(col.Name)
}

func selectList(coll schema.Collection) string {
	parts := make([]string, len(coll.Columns))
	for i, col := range coll.Columns {
		parts[i] = columnExpr(col) + " AS " + quote(col.Name)
	}
	return strings.Join(parts, ", ")
}

func filterValue(col schema.Column, v any) any {
	if v == nil {
		return nil
	}
	switch col.Kind {
	case schema.KindID, schema.KindDate, schema.KindNumeric:
		return domain.FormatID(v)
	}
	return v
}

// nest folds "alias.field" keys into nested records. A relation whose every
// field is null is a LEFT JOIN miss and becomes nil.
func nest(row map[string]any, relations []schema.Relation) domain.Record {
	rec := make(domain.Record, len(row))
	for k, v := range row {
		if !strings.Contains(k, ".") {
			rec[k] = v
		}
	}
	for _, rel := range relations {
		child := make(domain.Record, len(rel.Fields))
		present := false
		for _, f := range rel.Fields {
			v := row[rel.Alias+"."+f]
			if v != nil {
				present = true
			}
			child[f] = v
		}
		if present {
			rec[rel.Alias] = child
		} else {
			rec[rel.Alias] = nil
		}
	}
	return rec
}

func sortedFields(row domain.Record) []string {
	fields := make([]string, 0, len(row))
	for f := range row {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
