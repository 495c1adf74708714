// Package schema describes the console collections for the adapters that
// store them directly instead of going through the hosted data service.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/sismog_console/internal/core/domain"
)

// Kind is the storage type of a column. Adapters use it to render values in
// the shape the hosted data service would return them.
type Kind int

const (
	KindText Kind = iota
	KindID
	KindBool
	KindDate
	KindTimestamp
	KindNumeric
)

// Column is one field of a collection.
type Column struct {
	Name     string
	Kind     Kind
	Writable bool
}

// Relation is a many-to-one join embedded under Alias.
type Relation struct {
	Alias      string
	Collection string
	ForeignKey string
	Fields     []string
}

// Collection is the whitelist of columns and joins of one collection.
type Collection struct {
	Name      string
	Columns   []Column
	Relations []Relation
	// Unique lists columns whose values may not repeat within the collection.
	Unique []string
}

// Dependent is a foreign key in another collection that points at this one.
type Dependent struct {
	Collection string
	ForeignKey string
}

// Column looks up a column by name.
func (c Collection) Column(name string) (Column, bool) {
	for _, col := range c.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Requested returns the relations named in a select expression such as
// "*,company:companies(name)".
func (c Collection) Requested(sel string) []Relation {
	var out []Relation
	for _, rel := range c.Relations {
		if strings.Contains(sel, rel.Alias+":") {
			out = append(out, rel)
		}
	}
	return out
}

// Writable reports an error naming the first field of row that may not be written.
func (c Collection) Writable(row domain.Record) error {
	for field := range row {
		col, ok := c.Column(field)
		if !ok || !col.Writable {
			return fmt.Errorf("column %q of %s is not writable", field, c.Name)
		}
	}
	return nil
}

var collections = map[string]Collection{
	domain.CollectionCompanies: {
		Name: domain.CollectionCompanies,
		Columns: []Column{
			{Name: "id", Kind: KindID},
			{Name: "name", Kind: KindText, Writable: true},
			{Name: "tax_regime", Kind: KindText, Writable: true},
			{Name: "active", Kind: KindBool, Writable: true},
			{Name: "created_at", Kind: KindTimestamp},
		},
	},
	domain.CollectionEmployees: {
		Name: domain.CollectionEmployees,
		Columns: []Column{
			{Name: "id", Kind: KindID},
			{Name: "name", Kind: KindText, Writable: true},
			{Name: "title", Kind: KindText, Writable: true},
			{Name: "company_id", Kind: KindID, Writable: true},
			{Name: "active", Kind: KindBool, Writable: true},
			{Name: "created_at", Kind: KindTimestamp},
		},
		Relations: []Relation{
			{Alias: "company", Collection: domain.CollectionCompanies, ForeignKey: "company_id", Fields: []string{"name"}},
		},
	},
	domain.CollectionPenalties: {
		Name: domain.CollectionPenalties,
		Columns: []Column{
			{Name: "id", Kind: KindID},
			{Name: "date", Kind: KindDate, Writable: true},
			{Name: "type", Kind: KindText, Writable: true},
			{Name: "reason", Kind: KindText, Writable: true},
			{Name: "amount", Kind: KindNumeric, Writable: true},
			{Name: "file_ref", Kind: KindText, Writable: true},
			{Name: "responsible", Kind: KindText, Writable: true},
			{Name: "employee_id", Kind: KindID, Writable: true},
			{Name: "company_id", Kind: KindID, Writable: true},
			{Name: "created_at", Kind: KindTimestamp},
		},
		Relations: []Relation{
			{Alias: "employee", Collection: domain.CollectionEmployees, ForeignKey: "employee_id", Fields: []string{"name", "title"}},
			{Alias: "company", Collection: domain.CollectionCompanies, ForeignKey: "company_id", Fields: []string{"name"}},
		},
	},
	domain.CollectionProfiles: {
		Name: domain.CollectionProfiles,
		Columns: []Column{
			{Name: "id", Kind: KindID},
			{Name: "name", Kind: KindText, Writable: true},
			{Name: "email", Kind: KindText, Writable: true},
			{Name: "role", Kind: KindText, Writable: true},
			{Name: "category", Kind: KindText, Writable: true},
			{Name: "active", Kind: KindBool, Writable: true},
			{Name: "created_at", Kind: KindTimestamp},
		},
		Unique: []string{"email"},
	},
}

// Lookup returns the description of the named collection.
func Lookup(name string) (Collection, error) {
	c, ok := collections[name]
	if !ok {
		return Collection{}, fmt.Errorf("unknown collection %q", name)
	}
	return c, nil
}

// Dependents returns the foreign keys that reference the named collection,
// sorted for stable iteration.
func Dependents(name string) []Dependent {
	var out []Dependent
	for _, c := range collections {
		for _, rel := range c.Relations {
			if rel.Collection == name {
				out = append(out, Dependent{Collection: c.Name, ForeignKey: rel.ForeignKey})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Collection != out[j].Collection {
			return out[i].Collection < out[j].Collection
		}
		return out[i].ForeignKey < out[j].ForeignKey
	})
	return out
}
