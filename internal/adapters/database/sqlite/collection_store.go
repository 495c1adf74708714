package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/SscSPs/sismog_console/internal/adapters/database/schema"
	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CollectionStore implements the collection port over the records table. It
// enforces the same references and unique keys the PostgreSQL schema does and
// reports violations with the same wording.
type CollectionStore struct {
	*Store
}

// NewCollectionStore creates a new CollectionStore
func NewCollectionStore(s *Store) *CollectionStore {
	return &CollectionStore{Store: s}
}

var _ portsrepo.CollectionClientFacade = (*CollectionStore)(nil)

func (s *CollectionStore) Query(ctx context.Context, collection string, q portsrepo.Query) ([]domain.Record, error) {
	coll, err := lookup(collection)
	if err != nil {
		return nil, err
	}
	for _, f := range q.Filters {
		if _, ok := coll.Column(f.Field); !ok {
			return nil, apperrors.NewAppError(http.StatusBadRequest, fmt.Sprintf("unknown filter field %q", f.Field), apperrors.ErrValidation)
		}
	}
	for _, o := range q.Order {
		if _, ok := coll.Column(o.Field); !ok {
			return nil, apperrors.NewAppError(http.StatusBadRequest, fmt.Sprintf("unknown order field %q", o.Field), apperrors.ErrValidation)
		}
	}

	all, err := load(ctx, s.db, coll.Name)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Record, 0, len(all))
	for _, rec := range all {
		if matches(rec, q.Filters) {
			out = append(out, rec)
		}
	}
	sortRecords(out, q.Order)

	for _, rel := range coll.Requested(q.Select) {
		targets, err := load(ctx, s.db, rel.Collection)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]domain.Record, len(targets))
		for _, t := range targets {
			id, _ := t.ID()
			byID[id] = t
		}
		for _, rec := range out {
			target, ok := byID[text(rec[rel.ForeignKey])]
			if !ok {
				rec[rel.Alias] = nil
				continue
			}
			child := make(domain.Record, len(rel.Fields))
			for _, f := range rel.Fields {
				child[f] = target[f]
			}
			rec[rel.Alias] = child
		}
	}
	return out, nil
}

// Insert stores all rows in one transaction; either every row is written or none.
func (s *CollectionStore) Insert(ctx context.Context, collection string, rows ...domain.Record) ([]domain.Record, error) {
	coll, err := lookup(collection)
	if err != nil {
		return nil, err
	}

	stored := make([]domain.Record, 0, len(rows))
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		for _, row := range rows {
			if err := coll.Writable(row); err != nil {
				return apperrors.NewAppError(http.StatusBadRequest, err.Error(), apperrors.ErrValidation)
			}
			if err := checkReferences(ctx, tx, coll, row); err != nil {
				return err
			}
			if err := checkUnique(ctx, tx, coll, row, 0); err != nil {
				return err
			}
			payload, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("encode %s row: %w", coll.Name, err)
			}
			createdAt := s.timestamp()
			var id int64
			if err := tx.QueryRowContext(ctx,
				`INSERT INTO records (collection, payload, created_at) VALUES (?, ?, ?) RETURNING id`,
				coll.Name, string(payload), createdAt).Scan(&id); err != nil {
				return fmt.Errorf("failed to insert into %s: %w", coll.Name, err)
			}
			rec := row.Clone()
			rec[domain.FieldID] = strconv.FormatInt(id, 10)
			rec["created_at"] = createdAt
			stored = append(stored, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *CollectionStore) Update(ctx context.Context, collection string, id string, patch domain.Record) error {
	coll, err := lookup(collection)
	if err != nil {
		return err
	}
	if err := coll.Writable(patch); err != nil {
		return apperrors.NewAppError(http.StatusBadRequest, err.Error(), apperrors.ErrValidation)
	}
	rowID, ok := parseID(id)
	if !ok {
		return notFound(coll.Name, id)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		var payload []byte
		err := tx.QueryRowContext(ctx,
			`SELECT payload FROM records WHERE collection = ? AND id = ?`, coll.Name, rowID).Scan(&payload)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(coll.Name, id)
		}
		if err != nil {
			return fmt.Errorf("failed to load %s %s: %w", coll.Name, id, err)
		}
		current, err := decodePayload(payload)
		if err != nil {
			return fmt.Errorf("decode %s %s: %w", coll.Name, id, err)
		}
		if err := checkReferences(ctx, tx, coll, patch); err != nil {
			return err
		}
		if err := checkUnique(ctx, tx, coll, patch, rowID); err != nil {
			return err
		}
		for k, v := range patch {
			current[k] = v
		}
		merged, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", coll.Name, id, err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE records SET payload = ? WHERE id = ?`, string(merged), rowID); err != nil {
			return fmt.Errorf("failed to update %s %s: %w", coll.Name, id, err)
		}
		return nil
	})
}

func (s *CollectionStore) Delete(ctx context.Context, collection string, id string) error {
	coll, err := lookup(collection)
	if err != nil {
		return err
	}
	rowID, ok := parseID(id)
	if !ok {
		return notFound(coll.Name, id)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, dep := range schema.Dependents(coll.Name) {
			var n int
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM records WHERE collection = ? AND CAST(json_extract(payload, ?) AS TEXT) = ?`,
				dep.Collection, "$."+dep.ForeignKey, id).Scan(&n); err != nil {
				return fmt.Errorf("failed to check references to %s %s: %w", coll.Name, id, err)
			}
			if n > 0 {
				return apperrors.NewAppError(http.StatusConflict, fmt.Sprintf(
					`update or delete on table "%s" violates foreign key constraint "%s_%s_fkey" on table "%s"`,
					coll.Name, dep.Collection, dep.ForeignKey, dep.Collection), apperrors.ErrConflict)
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = ? AND id = ?`, coll.Name, rowID)
		if err != nil {
			return fmt.Errorf("failed to delete %s %s: %w", coll.Name, id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return notFound(coll.Name, id)
		}
		return nil
	})
}

func lookup(collection string) (schema.Collection, error) {
	coll, err := schema.Lookup(collection)
	if err != nil {
		return schema.Collection{}, apperrors.NewAppError(http.StatusBadRequest, err.Error(), apperrors.ErrValidation)
	}
	return coll, nil
}

func notFound(collection, id string) error {
	return apperrors.NewAppError(http.StatusNotFound, fmt.Sprintf("%s row %s not found", collection, id), apperrors.ErrNotFound)
}

func load(ctx context.Context, q queryer, collection string) ([]domain.Record, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, payload, created_at FROM records WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Record
	for rows.Next() {
		var (
			id        int64
			payload   []byte
			createdAt string
		)
		if err := rows.Scan(&id, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		rec, err := decodePayload(payload)
		if err != nil {
			return nil, fmt.Errorf("decode %s %d: %w", collection, id, err)
		}
		rec[domain.FieldID] = strconv.FormatInt(id, 10)
		rec["created_at"] = createdAt
		out = append(out, rec)
	}
	return out, rows.Err()
}

func decodePayload(payload []byte) (domain.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	rec := domain.Record{}
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func checkReferences(ctx context.Context, tx *sql.Tx, coll schema.Collection, row domain.Record) error {
	for _, rel := range coll.Relations {
		v, ok := row[rel.ForeignKey]
		if !ok || v == nil {
			continue
		}
		ref := text(v)
		refID, valid := parseID(ref)
		var n int
		if valid {
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM records WHERE collection = ? AND id = ?`, rel.Collection, refID).Scan(&n); err != nil {
				return fmt.Errorf("failed to check %s reference: %w", rel.Alias, err)
			}
		}
		if n == 0 {
			return apperrors.NewAppError(http.StatusConflict, fmt.Sprintf(
				`insert or update on table "%s" violates foreign key constraint "%s_%s_fkey"`,
				coll.Name, coll.Name, rel.ForeignKey), apperrors.ErrConflict)
		}
	}
	return nil
}

func checkUnique(ctx context.Context, tx *sql.Tx, coll schema.Collection, row domain.Record, self int64) error {
	for _, field := range coll.Unique {
		v, ok := row[field]
		if !ok || v == nil {
			continue
		}
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM records WHERE collection = ? AND CAST(json_extract(payload, ?) AS TEXT) = ? AND id <> ?`,
			coll.Name, "$."+field, text(v), self).Scan(&n); err != nil {
			return fmt.Errorf("failed to check %s uniqueness: %w", field, err)
		}
		if n > 0 {
			return apperrors.NewAppError(http.StatusConflict, fmt.Sprintf(
				`duplicate key value violates unique constraint "%s_%s_key"`, coll.Name, field), apperrors.ErrDuplicate)
		}
	}
	return nil
}

func text(v any) string {
	if v == nil {
		return ""
	}
	return domain.FormatID(v)
}

func matches(rec domain.Record, filters []portsrepo.Filter) bool {
	for _, f := range filters {
		got, present := rec[f.Field]
		if f.Value == nil {
			if present && got != nil {
				return false
			}
			continue
		}
		if !present || got == nil || text(got) != text(f.Value) {
			return false
		}
	}
	return true
}

func sortRecords(recs []domain.Record, order []portsrepo.Order) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(recs, func(i, j int) bool {
		for _, o := range order {
			c := compare(recs[i][o.Field], recs[j][o.Field])
			if c == 0 {
				continue
			}
			if o.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compare orders numerically when both sides are numbers and as text otherwise.
func compare(a, b any) int {
	as, bs := text(a), text(b)
	af, aerr := strconv.ParseFloat(as, 64)
	bf, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(as, bs)
}
