package services

import (
	"fmt"
	"slices"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/resource"
)

// fieldSetter returns a draft setter accepting only the listed fields.
// Values are converted to the draft's field types; "true" sets a bool and a
// numeric id sets a string.
func fieldSetter[D any](allowed ...string) resource.FieldSetter[D] {
	return func(draft *D, field string, value any) error {
		if !slices.Contains(allowed, field) {
			return fmt.Errorf("%w: %s", resource.ErrUnknownField, field)
		}
		if err := decodeInto(map[string]any{field: value}, draft); err != nil {
			return fmt.Errorf("invalid value for %s: %v: %w", field, err, apperrors.ErrValidation)
		}
		return nil
	}
}
