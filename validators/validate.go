// Package validators holds the shared request validation used by the
// per-area validator middlewares.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by the name the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// Struct validates s and returns one message per failing field. The map is
// never nil so callers can add their own checks to it.
func Struct(s interface{}) map[string]string {
	errs := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return errs
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		errs["body"] = err.Error()
		return errs
	}
	for _, fe := range ves {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", fe.Field())
	case "email":
		return "Invalid email!"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long!", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long!", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s!", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid URL!", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid!", fe.Field())
	}
}

// Positive records an error unless d > 0.
func Positive(errs map[string]string, field string, d decimal.Decimal) {
	if !d.IsPositive() {
		errs[field] = fmt.Sprintf("%s must be greater than 0!", field)
	}
}

// Percentage records an error unless d is absent or in (0, 100].
func Percentage(errs map[string]string, field string, d decimal.NullDecimal) {
	if d.Valid && (!d.Decimal.IsPositive() || d.Decimal.GreaterThan(decimal.NewFromInt(100))) {
		errs[field] = fmt.Sprintf("%s must be between 0 and 100!", field)
	}
}

// Amount parses a form value as a non-negative decimal.
func Amount(errs map[string]string, field, value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		errs[field] = fmt.Sprintf("%s must be a number!", field)
		return decimal.Zero
	}
	if d.IsNegative() {
		errs[field] = fmt.Sprintf("%s cannot be negative!", field)
	}
	return d
}
