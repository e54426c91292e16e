package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(tagName)
	if err := v.RegisterValidation("decimal", isDecimal); err != nil {
		panic(err)
	}
	return v
}

// tagName reports a field under the first name found in its query, json or
// params tag
func tagName(fld reflect.StructField) string {
	for _, key := range []string{"query", "json", "params"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return ""
}

func isDecimal(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	_, err := decimal.NewFromString(field.String())
	return err == nil
}

// ValidationError describes one rejected field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every rejected field of one request
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// Validate checks v against its validate tags. Failures come back as
// ValidationErrors.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{Field: toFieldName(fe.Field()), Message: message(fe)})
	}
	return out
}

// IsValidationError reports whether err wraps ValidationErrors
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// toFieldName lower-cases the first letter of untagged field names
func toFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

var messages = map[string]string{
	"gt":    "must be greater than %s",
	"gte":   "must be greater than or equal to %s",
	"lt":    "must be less than %s",
	"lte":   "must be less than or equal to %s",
	"oneof": "must be one of: %s",
}

func message(fe validator.FieldError) string {
	switch tag := fe.Tag(); tag {
	case "required":
		return "is required"
	case "decimal":
		return "must be a decimal number"
	case "min", "max":
		bound := "at least"
		if tag == "max" {
			bound = "at most"
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be %s %s characters", bound, fe.Param())
		}
		return fmt.Sprintf("must be %s %s", bound, fe.Param())
	default:
		if format, ok := messages[tag]; ok {
			return fmt.Sprintf(format, fe.Param())
		}
		return "failed validation: " + tag
	}
}
