package domain

import (
	"fmt"
	"strconv"
)

// FieldID is the identifier field carried by every persisted record.
const FieldID = "id"

// Record is one row of a named collection as exchanged with the data service:
// field name to scalar value, with joined relations as nested Records.
type Record map[string]any

// ID returns the record identifier rendered as a string. ok is false for
// drafts that were never persisted.
func (r Record) ID() (string, bool) {
	v, exists := r[FieldID]
	if !exists || v == nil {
		return "", false
	}
	id := FormatID(v)
	return id, id != ""
}

// Text returns a field as text. ok is false when the field is absent or null.
func (r Record) Text(field string) (string, bool) {
	v, exists := r[field]
	if !exists || v == nil {
		return "", false
	}
	if s, isString := v.(string); isString {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FormatID normalises identifier values coming from JSON (float64), SQL
// drivers (int64) or text columns into a single string form.
func FormatID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case int:
		return strconv.Itoa(id)
	case int32:
		return strconv.FormatInt(int64(id), 10)
	case int64:
		return strconv.FormatInt(id, 10)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprint(v)
	}
}
