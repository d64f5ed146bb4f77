// Package validation checks parsed catalog input with go-playground/validator
// before anything is submitted to the store.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError represents a single field validation failure
type ValidationError struct {
	field   string
	tag     string
	param   string
	message string
}

// Field returns the field name that failed validation
func (e *ValidationError) Field() string {
	return e.field
}

// Tag returns the validation tag that failed
func (e *ValidationError) Tag() string {
	return e.tag
}

// Param returns the tag parameter, e.g. "10" for "lte=10"
func (e *ValidationError) Param() string {
	return e.param
}

// Error returns a human-readable error message
func (e *ValidationError) Error() string {
	return e.message
}

// RequestValidationError collects every field failure of one struct
type RequestValidationError struct {
	errors []ValidationError
}

// NewFieldError builds a single-field failure for checks made outside the validator,
// such as text that does not parse as a number.
func NewFieldError(field, message string) *RequestValidationError {
	return &RequestValidationError{errors: []ValidationError{{
		field:   field,
		tag:     "parse",
		message: fmt.Sprintf("%s %s", field, message),
	}}}
}

// Errors returns the individual field failures
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// Error joins the field messages
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(ve.errors))
	for _, err := range ve.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report the label users typed at the prompt instead of the Go field name.
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("label"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
	})

	return validate
}

// ValidateStruct validates s. It returns nil or a *RequestValidationError.
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}

	out := &RequestValidationError{errors: make([]ValidationError, 0, len(invalid))}
	for _, fe := range invalid {
		out.errors = append(out.errors, ValidationError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			message: translate(fe),
		})
	}
	return out
}

func translate(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
