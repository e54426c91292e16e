package clickhouse

import (
	"context"
	"fmt"

	"github.com/phee/operations/api/internal/domain"
	"github.com/phee/operations/api/internal/pkg/database"
)

// TaskRepository reads task audit rows from ClickHouse
type TaskRepository struct {
	db *database.ClickHouseDB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.ClickHouseDB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListByWorkflowInstanceKey returns the tasks of one workflow instance in
// timestamp order
func (r *TaskRepository) ListByWorkflowInstanceKey(ctx context.Context, workflowInstanceKey int64) ([]domain.Task, error) {
	query := `
		SELECT id, workflow_key, workflow_instance_key, timestamp, element_id, type, name, outcome
		FROM tasks
		WHERE workflow_instance_key = ?
		ORDER BY timestamp ASC, id ASC
	`

	tasks := []domain.Task{}
	if err := r.db.Select(ctx, "list_tasks", &tasks, query, workflowInstanceKey); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}
