package schema

import (
	"testing"

	"github.com/SscSPs/sismog_console/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownCollections(t *testing.T) {
	for _, name := range []string{
		domain.CollectionCompanies,
		domain.CollectionEmployees,
		domain.CollectionPenalties,
		domain.CollectionProfiles,
	} {
		c, err := Lookup(name)
		require.NoError(t, err, name)
		id, ok := c.Column("id")
		require.True(t, ok, name)
		assert.False(t, id.Writable, name)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("journals")
	assert.Error(t, err)
}

func TestWritable(t *testing.T) {
	c, err := Lookup(domain.CollectionEmployees)
	require.NoError(t, err)

	assert.NoError(t, c.Writable(domain.Record{"name": "Ana", "company_id": "1"}))
	assert.ErrorContains(t, c.Writable(domain.Record{"id": "9"}), `"id"`)
	assert.ErrorContains(t, c.Writable(domain.Record{"company": domain.Record{"name": "x"}}), `"company"`)
}

func TestRelations_PointAtKnownCollections(t *testing.T) {
	for name := range collections {
		c, _ := Lookup(name)
		for _, rel := range c.Relations {
			target, err := Lookup(rel.Collection)
			require.NoError(t, err)
			_, ok := c.Column(rel.ForeignKey)
			assert.True(t, ok, "%s.%s", name, rel.ForeignKey)
			for _, f := range rel.Fields {
				_, ok := target.Column(f)
				assert.True(t, ok, "%s.%s", rel.Collection, f)
			}
		}
	}
}

func TestDependents(t *testing.T) {
	assert.Equal(t, []Dependent{
		{Collection: domain.CollectionEmployees, ForeignKey: "company_id"},
		{Collection: domain.CollectionPenalties, ForeignKey: "company_id"},
	}, Dependents(domain.CollectionCompanies))

	assert.Equal(t, []Dependent{
		{Collection: domain.CollectionPenalties, ForeignKey: "employee_id"},
	}, Dependents(domain.CollectionEmployees))

	assert.Empty(t, Dependents(domain.CollectionProfiles))
}

func TestRequested(t *testing.T) {
	coll, err := Lookup(domain.CollectionPenalties)
	require.NoError(t, err)

	rels := coll.Requested("*,employee:employees(name,title),company:companies(name)")
	require.Len(t, rels, 2)
	assert.Equal(t, "employee", rels[0].Alias)
	assert.Equal(t, "company", rels[1].Alias)

	assert.Empty(t, coll.Requested("*"))
}
