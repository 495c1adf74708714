package resource_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/SscSPs/sismog_console/internal/core/domain"
	"github.com/SscSPs/sismog_console/internal/core/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   string
	Name string
	Note string
}

var rowFields = []resource.FieldFunc[row]{
	resource.Text(func(r row) string { return r.Name }),
	resource.Text(func(r row) string { return r.Note }),
}

func TestFilter_EmptySearchReturnsListUnchanged(t *testing.T) {
	items := []row{{ID: "1", Name: "Acme"}, {ID: "2", Name: "Beta"}}

	got := resource.Filter(items, "", rowFields...)

	assert.Equal(t, items, got)
}

func TestFilter_CaseInsensitiveAcrossFields(t *testing.T) {
	items := []row{
		{ID: "1", Name: "Acme Ltda", Note: ""},
		{ID: "2", Name: "Beta", Note: "sócio da ACME"},
		{ID: "3", Name: "Gama", Note: "nada"},
	}

	got := resource.Filter(items, "aCmE", rowFields...)

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestFilter_AbsentFieldNeverMatches(t *testing.T) {
	items := []domain.Record{
		{"id": 1, "name": "Acme"},
		{"id": 2},
		{"id": 3, "name": nil},
		{"id": 4, "name": "acme sul"},
	}

	got := resource.Filter(items, "acme", resource.RecordField("name"))

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0]["id"])
	assert.Equal(t, 4, got[1]["id"])
}

func TestFilter_ResultIsOrderedSubsequenceOfMatches(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcAB ")
	randomText := func(n int) string {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		return sb.String()
	}

	for round := 0; round < 200; round++ {
		items := make([]row, rng.Intn(12))
		for i := range items {
			items[i] = row{ID: string(rune('a' + i)), Name: randomText(rng.Intn(6)), Note: randomText(rng.Intn(6))}
		}
		search := randomText(rng.Intn(3))

		got := resource.Filter(items, search, rowFields...)

		// every result matches
		needle := strings.ToLower(search)
		for _, r := range got {
			matched := strings.Contains(strings.ToLower(r.Name), needle) || strings.Contains(strings.ToLower(r.Note), needle)
			assert.True(t, matched, "item %q does not contain %q", r.ID, search)
		}

		// results appear in source order
		next := 0
		for _, r := range got {
			for next < len(items) && items[next].ID != r.ID {
				next++
			}
			require.Less(t, next, len(items), "result %q out of order", r.ID)
			next++
		}

		if search == "" {
			assert.Equal(t, items, got)
		}
	}
}
