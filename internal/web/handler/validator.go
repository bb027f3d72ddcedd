package handler

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/relaone/relaone-web/internal/api"
)

// XValidator validates submitted forms.
type XValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator keyed by the form tag names.
func NewValidator() *XValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" && name != "-" {
			return name
		}

		return f.Name
	})

	return &XValidator{validator: v}
}

// Validate checks data and returns the failures by form field, nil when valid.
func (v *XValidator) Validate(data any) api.FieldErrors {
	err := v.validator.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return api.FieldErrors{api.GeneralField: {err.Error()}}
	}

	out := make(api.FieldErrors, len(validationErrors))
	for _, fe := range validationErrors {
		out[fe.Field()] = append(out[fe.Field()], message(fe))
	}

	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed the %q check.", fe.Tag())
	}
}
