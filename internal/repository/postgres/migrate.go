package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/phee/operations/api/internal/pkg/database"
	"github.com/phee/operations/api/internal/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the bootstrap DDL for the record store
func Schema() string {
	return schemaSQL
}

// schemaStatements splits the DDL into individual statements
func schemaStatements(ddl string) []string {
	var statements []string
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		statements = append(statements, stmt)
	}
	return statements
}

// Migrate applies the bootstrap DDL. Every statement is idempotent so it is
// safe to run against an already initialized database.
func Migrate(ctx context.Context, db *database.PostgresDB) error {
	statements := schemaStatements(schemaSQL)

	for _, stmt := range statements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %q: %w", firstLine(stmt), err)
		}
	}

	logger.Info("record store schema applied", zap.Int("statements", len(statements)))
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
