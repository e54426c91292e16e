package clickhouse

import (
	"context"
	"fmt"

	"github.com/phee/operations/api/internal/domain"
	"github.com/phee/operations/api/internal/pkg/database"
)

// VariableRepository reads variable snapshots from ClickHouse
type VariableRepository struct {
	db *database.ClickHouseDB
}

// NewVariableRepository creates a new variable repository
func NewVariableRepository(db *database.ClickHouseDB) *VariableRepository {
	return &VariableRepository{db: db}
}

// ListByWorkflowInstanceKey returns the variables of one workflow instance
// in timestamp order
func (r *VariableRepository) ListByWorkflowInstanceKey(ctx context.Context, workflowInstanceKey int64) ([]domain.Variable, error) {
	query := `
		SELECT id, workflow_key, workflow_instance_key, timestamp, name, value
		FROM variables
		WHERE workflow_instance_key = ?
		ORDER BY timestamp ASC, id ASC
	`

	variables := []domain.Variable{}
	if err := r.db.Select(ctx, "list_variables", &variables, query, workflowInstanceKey); err != nil {
		return nil, fmt.Errorf("failed to list variables: %w", err)
	}

	return variables, nil
}
