// Package domain contains the core entities of the operations audit API.
//
// This package defines:
//   - Business records (Transaction and its TransactionStatus)
//   - Audit records written by the workflow exporter (Task, Variable, BusinessKey)
//   - Read-side compositions (TransactionDetail)
//   - Query inputs (TransactionFilter)
//
// # Design Philosophy
//
// Domain types are persistence-agnostic. They carry db and ch tags so the
// PostgreSQL and ClickHouse repositories can scan rows straight into them,
// but no query logic lives here.
//
// # Key Entities
//
//   - Transaction: one row per business transaction, keyed by workflow instance
//   - Task: one workflow step execution, many per workflow instance
//   - Variable: one workflow variable snapshot, many per workflow instance
//   - BusinessKey: maps an external identifier and its type to a workflow instance
//
// # Naming Conventions
//
// Types ending in "Filter" are used for query operations.
package domain
