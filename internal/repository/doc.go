// Package repository contains the data access implementations of the
// operations API.
//
// Repository interfaces are declared by the service package, which consumes
// them. The subpackages hold the concrete stores:
//   - postgres: transactions (pgx), tasks, variables and business keys (sqlx)
//   - clickhouse: an alternative store for tasks and variables
//
// Every repository is read-only from the API's point of view and safe for
// concurrent use. Connection pools live in internal/pkg/database.
package repository
