// Package handler contains the HTTP request handlers of the operations API.
//
// Handlers parse and validate query and path parameters, call the query and
// audit services and serialize the result. Failures are returned as errors
// and rendered by the application error handler:
//   - malformed or missing parameters become 400 responses
//   - store failures become 500 responses
//
// All handlers are safe for concurrent use.
package handler
