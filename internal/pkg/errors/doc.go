// Package errors provides the application error type of the operations API.
//
// An AppError pairs a client-facing message with the HTTP status the API
// answers with. Lookups that match no rows are not errors; repositories
// return empty results for them.
//
//	return apperrors.Internal("failed to list transactions").WithError(err)
package errors
