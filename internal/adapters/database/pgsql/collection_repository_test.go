package pgsql

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/sismog_console/internal/adapters/database/schema"
	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNest(t *testing.T) {
	coll, _ := schema.Lookup(domain.CollectionPenalties)
	rels := coll.Relations
	created := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	row := map[string]any{
		"id":             "7",
		"created_at":     created,
		"employee.name":  "Ana",
		"employee.title": nil,
		"company.name":   nil,
	}
	rec := nest(row, rels)

	assert.Equal(t, "7", rec["id"])
	assert.Equal(t, created, rec["created_at"])
	assert.Equal(t, domain.Record{"name": "Ana", "title": nil}, rec["employee"])
	assert.Nil(t, rec["company"], "LEFT JOIN miss should nest as nil")
	_, dotted := rec["employee.name"]
	assert.False(t, dotted)
}

func TestSelectList_CastsTextualKinds(t *testing.T) {
	coll, _ := schema.Lookup(domain.CollectionPenalties)
	list := selectList(coll)

	assert.Contains(t, list, `t."id"::text AS "id"`)
	assert.Contains(t, list, `t."date"::text AS "date"`)
	assert.Contains(t, list, `t."amount"::text AS "amount"`)
	assert.Contains(t, list, `t."created_at" AS "created_at"`)
	assert.Contains(t, list, `t."reason" AS "reason"`)
}

func TestFilterValue(t *testing.T) {
	id, _ := schema.Lookup(domain.CollectionCompanies)
	idCol, _ := id.Column("id")
	activeCol, _ := id.Column("active")

	assert.Equal(t, "12", filterValue(idCol, int64(12)))
	assert.Equal(t, true, filterValue(activeCol, true))
	assert.Nil(t, filterValue(idCol, nil))
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		sentinel error
		status   int
	}{
		{"unique", codeUniqueViolation, apperrors.ErrDuplicate, 409},
		{"foreign key", codeForeignKeyViolation, apperrors.ErrConflict, 409},
		{"not null", codeNotNullViolation, apperrors.ErrValidation, 400},
		{"bad text", codeInvalidText, apperrors.ErrValidation, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(&pgconn.PgError{Code: tt.code, Message: "server says no"})

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.status, appErr.Code)
			assert.Equal(t, "server says no", appErr.Message)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}

	plain := errors.New("connection reset")
	assert.Same(t, plain, translate(plain))
	assert.NoError(t, translate(nil))
}

func TestSortedFields(t *testing.T) {
	assert.Equal(t, []string{"active", "name", "tax_regime"},
		sortedFields(domain.Record{"tax_regime": "x", "name": "y", "active": true}))
}
