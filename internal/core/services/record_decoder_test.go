package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/sismog_console/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecords_DropsRowsWithoutIdentifier(t *testing.T) {
	rows := []domain.Record{
		{"id": float64(1), "name": "Acme"},
		{"name": "orphan"},
		{"id": nil, "name": "null id"},
		{"id": json.Number("2"), "name": "Beta"},
	}

	got, err := decodeRecords[domain.Company](context.Background(), domain.CollectionCompanies, rows)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestDecodeRecord_Timestamps(t *testing.T) {
	layouts := map[string]time.Time{
		"2024-03-01T10:00:00Z":          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		"2024-03-01T10:00:00.5+00:00":   time.Date(2024, 3, 1, 10, 0, 0, 500000000, time.UTC),
		"2024-03-01 10:00:00.123456+00": time.Date(2024, 3, 1, 10, 0, 0, 123456000, time.UTC),
		"2024-03-01 10:00:00":           time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	for raw, want := range layouts {
		c, err := decodeRecord[domain.Company](domain.Record{"id": "1", "created_at": raw})
		require.NoError(t, err, raw)
		require.NotNil(t, c.CreatedAt, raw)
		assert.True(t, want.Equal(*c.CreatedAt), "%s decoded as %s", raw, c.CreatedAt)
	}

	_, err := decodeRecord[domain.Company](domain.Record{"id": "1", "created_at": "yesterday"})
	assert.Error(t, err)
}

func TestDecodeRecord_DecimalSources(t *testing.T) {
	for _, raw := range []any{"12.50", json.Number("12.50"), 12.5} {
		p, err := decodeRecord[domain.Penalty](domain.Record{"id": "1", "amount": raw})
		require.NoError(t, err)
		require.NotNil(t, p.Amount)
		assert.True(t, decimal.RequireFromString("12.5").Equal(*p.Amount), "%v", raw)
	}
}

func TestDecodeRecords_BadRowFailsFetch(t *testing.T) {
	_, err := decodeRecords[domain.Company](context.Background(), domain.CollectionCompanies, []domain.Record{
		{"id": "1", "active": "sometimes"},
	})

	assert.ErrorContains(t, err, "unexpected companies data")
}
