package validator

import (
	"reflect"
	"strings"
	"sync"

	ierr "github.com/flexprice/invoicedoc/internal/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// NewValidator builds the shared validator. Field names in errors follow the
// form/json tags so they match what API callers sent.
func NewValidator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(tagName)
		validate = v
	})
	return validate
}

func GetValidator() *validator.Validate {
	return NewValidator()
}

// ValidateRequest validates a query or body DTO, reporting offending fields as details
func ValidateRequest(req interface{}) error {
	err := GetValidator().Struct(req)
	if err == nil {
		return nil
	}

	details := make(map[string]any)
	var validateErrs validator.ValidationErrors
	if ierr.As(err, &validateErrs) {
		for _, fe := range validateErrs {
			details[fe.Field()] = describe(fe)
		}
	}
	return ierr.WithError(err).
		WithHint("Request validation failed").
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}

func tagName(f reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed the " + fe.Tag() + " check"
	}
}
