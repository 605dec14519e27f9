// Package validation applies the field-level rules requests must satisfy
// before they reach a repository. Struct payloads are checked with tag-based
// rules; query and path parameters go through the Require helpers. Either
// way a failure surfaces as a list of FieldError values the API serializes
// as-is.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// validate is shared across requests; it caches struct metadata and is safe
// for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields under their JSON names, not their Go names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes a single rejected field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Errors is a field-error list that satisfies error, for rules struct tags
// cannot express.
type Errors []FieldError

func (e Errors) Error() string { return "validation failed" }

// Struct runs the tag-based rules against a request payload.
func Struct(v any) error {
	return validate.Struct(v)
}

// Fields converts any validation error into the field list served to
// clients.
func Fields(err error) []FieldError {
	if err == nil {
		return nil
	}

	var custom Errors
	if errors.As(err, &custom) {
		return custom
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Error: err.Error()}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Error: message(fe)})
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "alpha":
		return "must contain only letters"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed rule %s=%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed rule %s", fe.Tag())
	}
}

// ParseDate parses a YYYY-MM-DD value into a midnight-UTC time.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// RequireDate parses a required YYYY-MM-DD parameter, describing any failure
// as a field error.
func RequireDate(field, raw string) (time.Time, *FieldError) {
	if raw == "" {
		return time.Time{}, &FieldError{Field: field, Error: "is required"}
	}
	t, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, &FieldError{Field: field, Error: "must be a date in YYYY-MM-DD format"}
	}
	return t, nil
}

// RequireNonNegativeInt parses a required non-negative integer parameter.
func RequireNonNegativeInt(field, raw string) (int, *FieldError) {
	if raw == "" {
		return 0, &FieldError{Field: field, Error: "is required"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &FieldError{Field: field, Error: "must be an integer"}
	}
	if n < 0 {
		return 0, &FieldError{Field: field, Error: "must not be negative"}
	}
	return n, nil
}
