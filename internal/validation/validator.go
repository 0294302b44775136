// Package validation enforces the write-side invariants of certificates and
// tags using go-playground/validator rule structs, translated into domain errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/pkordes/gift-catalog/internal/domain"
)

// createRules mirrors domain.CertificateInput with the rules for creation.
type createRules struct {
	Name        *string `json:"name" validate:"required,notblank"`
	Description *string `json:"description" validate:"required,notblank"`
	Price       *int64  `json:"price" validate:"required,gt=0"`
	Duration    *int64  `json:"duration" validate:"required,gt=0"`
}

// updateRules mirrors domain.CertificateInput with the rules for partial updates.
// Absent fields are skipped; supplied ones must still be sensible.
type updateRules struct {
	Name        *string `json:"name" validate:"omitnil,notblank"`
	Description *string `json:"description" validate:"omitnil,notblank"`
	Price       *int64  `json:"price" validate:"omitnil,gt=0"`
	Duration    *int64  `json:"duration" validate:"omitnil,gt=0"`
}

// Validator wraps go-playground/validator with domain error conversion.
// It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator. Field names in messages use the JSON tag names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" {
			return fld.Name
		}
		return name
	})
	// notblank is shipped as a non-standard validator and must be registered.
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	return &Validator{v: v}
}

// ValidateForCreate requires name, description, price, and duration.
// Blank text counts as missing and wins over range errors:
// it returns domain.ErrRequiredField first, then domain.ErrInvalidValue.
func (v *Validator) ValidateForCreate(in domain.CertificateInput) error {
	err := v.v.Struct(createRules{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
	})
	return v.formatError(err, true)
}

// ValidateForUpdate checks only the fields that are present.
// Non-positive price/duration and whitespace-only text yield domain.ErrInvalidValue.
func (v *Validator) ValidateForUpdate(in domain.CertificateInput) error {
	err := v.v.Struct(updateRules{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
	})
	return v.formatError(err, false)
}

// ValidateTagName rejects blank and whitespace-only names with domain.ErrRequiredField.
func (v *Validator) ValidateTagName(name string) error {
	if err := v.v.Var(name, "notblank"); err != nil {
		return fmt.Errorf("%w: tag name is required", domain.ErrRequiredField)
	}
	return nil
}

// formatError converts validator errors to a single wrapped domain error.
// missingIfBlank makes notblank failures count as missing fields.
func (v *Validator) formatError(err error, missingIfBlank bool) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var missing, invalid []string
	for _, e := range validationErrs {
		switch {
		case e.Tag() == "required", e.Tag() == "notblank" && missingIfBlank:
			missing = append(missing, e.Field()+" is required")
		default:
			invalid = append(invalid, e.Field()+" "+friendlyMessage(e))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrRequiredField, strings.Join(missing, "; "))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidValue, strings.Join(invalid, "; "))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "gt":
		return "must be greater than " + e.Param()
	case "notblank":
		return "must not be blank"
	default:
		return "is invalid"
	}
}
