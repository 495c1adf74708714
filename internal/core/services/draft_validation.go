package services

import (
	"errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/SscSPs/sismog_console/internal/core/domain"
	"github.com/SscSPs/sismog_console/internal/core/resource"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validation messages beyond the shared ones.
const (
	msgInvalidTaxRegime = "invalid tax regime"
	msgEmailImmutable   = "email cannot be changed"
)

var draftValidator = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("taxregime", func(fl validator.FieldLevel) bool {
		return domain.TaxRegime(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct runs the struct's validate tags and reports the first
// failing field as a resource.ValidationError.
func validateStruct(draft any) error {
	err := draftValidator.Struct(draft)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "taxregime":
		return resource.NewValidationError(fe.Field(), msgInvalidTaxRegime)
	default:
		return resource.NewValidationError(fe.Field(), resource.MsgRequired)
	}
}

func validateCompanyDraft(d domain.Company) error {
	return validateStruct(d)
}

func validateEmployeeDraft(d domain.Employee) error {
	return validateStruct(d)
}

// validateProfileDraft checks the password pair only when a change was
// requested: both fields present, equal, and long enough.
func validateProfileDraft(d domain.ProfileDraft) error {
	if !d.PasswordChangeRequested() {
		return nil
	}
	if d.NewPassword == "" {
		return resource.NewValidationError("new_password", resource.MsgRequired)
	}
	if d.ConfirmPassword == "" {
		return resource.NewValidationError("confirm_password", resource.MsgRequired)
	}
	if d.NewPassword != d.ConfirmPassword {
		return resource.NewValidationError("confirm_password", resource.MsgPasswordMismatch)
	}
	if utf8.RuneCountInString(d.NewPassword) < domain.MinPasswordLength {
		return resource.NewValidationError("new_password", resource.MsgPasswordTooShort)
	}
	return nil
}
