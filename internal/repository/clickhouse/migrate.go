package clickhouse

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/phee/operations/api/internal/pkg/database"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates the task and variable tables when they are missing.
// ClickHouse accepts a single statement per Exec.
func Migrate(ctx context.Context, db *database.ClickHouseDB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := db.Exec(ctx, "migrate", stmt); err != nil {
			return fmt.Errorf("failed to apply clickhouse schema: %w", err)
		}
	}
	return nil
}
