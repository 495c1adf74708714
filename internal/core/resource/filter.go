package resource

import (
	"strings"

	"github.com/SscSPs/sismog_console/internal/core/domain"
)

// FieldFunc extracts one searchable text field. ok is false when the field
// is absent, which never matches.
type FieldFunc[T any] func(item T) (value string, ok bool)

// Text adapts a plain string accessor into a FieldFunc.
func Text[T any](get func(T) string) FieldFunc[T] {
	return func(item T) (string, bool) { return get(item), true }
}

// RecordField searches a named field of a raw Record.
func RecordField(name string) FieldFunc[domain.Record] {
	return func(r domain.Record) (string, bool) { return r.Text(name) }
}

// Filter returns the items where at least one field contains search,
// ignoring case. Relative order is preserved and an empty search returns
// items unchanged.
func Filter[T any](items []T, search string, fields ...FieldFunc[T]) []T {
	if search == "" {
		return items
	}
	needle := strings.ToLower(search)
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields {
			value, ok := field(item)
			if ok && strings.Contains(strings.ToLower(value), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
