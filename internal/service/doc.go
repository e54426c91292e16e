// Package service contains the query and aggregation logic of the operations
// API.
//
// QueryService answers single-entity and paginated reads over the record
// store. AuditService builds on it to resolve a business key into the audit
// trail of every workflow instance it maps to.
//
// Services depend on repository interfaces defined in this package so the
// Postgres and ClickHouse implementations can be swapped and mocked. All
// services are safe for concurrent use.
package service
