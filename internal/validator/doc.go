// Package validator provides struct validation for request parameters.
//
// It wraps go-playground/validator with field names taken from the query,
// json or params struct tags, a "decimal" rule for amount strings, and
// human-readable messages:
//
//	if err := validator.Validate(params); err != nil {
//	    // err is a validator.ValidationErrors
//	}
//
// The validator instance is package-level and safe for concurrent use.
package validator
