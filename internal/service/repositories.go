package service

import (
	"context"

	"github.com/phee/operations/api/internal/domain"
	"github.com/phee/operations/api/internal/pkg/pagination"
)

// TransactionRepository defines the transaction reads the query layer needs
type TransactionRepository interface {
	// GetByWorkflowInstanceKey returns the transaction for a workflow
	// instance, or nil when none exists.
	GetByWorkflowInstanceKey(ctx context.Context, workflowInstanceKey int64) (*domain.Transaction, error)
	// List returns one page of matching transactions and the total match count.
	List(ctx context.Context, filter *domain.TransactionFilter, req pagination.PageRequest) ([]domain.Transaction, int64, error)
}

// TaskRepository reads task rows of a workflow instance in timestamp order
type TaskRepository interface {
	ListByWorkflowInstanceKey(ctx context.Context, workflowInstanceKey int64) ([]domain.Task, error)
}

// VariableRepository reads variable rows of a workflow instance in timestamp order
type VariableRepository interface {
	ListByWorkflowInstanceKey(ctx context.Context, workflowInstanceKey int64) ([]domain.Variable, error)
}

// BusinessKeyRepository resolves a business key and type to its rows
type BusinessKeyRepository interface {
	ListByKeyAndType(ctx context.Context, businessKey, businessKeyType string) ([]domain.BusinessKey, error)
}
