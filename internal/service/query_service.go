package service

import (
	"context"
	"fmt"

	"github.com/phee/operations/api/internal/domain"
	"github.com/phee/operations/api/internal/pkg/pagination"
)

// QueryService handles transaction and audit trail queries
type QueryService struct {
	transactionRepo TransactionRepository
	taskRepo        TaskRepository
	variableRepo    VariableRepository
	businessKeyRepo BusinessKeyRepository
}

// NewQueryService creates a new query service
func NewQueryService(
	transactionRepo TransactionRepository,
	taskRepo TaskRepository,
	variableRepo VariableRepository,
	businessKeyRepo BusinessKeyRepository,
) *QueryService {
	return &QueryService{
		transactionRepo: transactionRepo,
		taskRepo:        taskRepo,
		variableRepo:    variableRepo,
		businessKeyRepo: businessKeyRepo,
	}
}

// GetTransaction returns the transaction driven by a workflow instance, or
// nil when there is none
func (s *QueryService) GetTransaction(ctx context.Context, workflowInstanceKey int64) (*domain.Transaction, error) {
	return s.transactionRepo.GetByWorkflowInstanceKey(ctx, workflowInstanceKey)
}

// ListTransactions returns one page of transactions matching every non-nil
// field of filter, ordered by start time
func (s *QueryService) ListTransactions(ctx context.Context, filter *domain.TransactionFilter, page, size int) (*pagination.Page[domain.Transaction], error) {
	if filter == nil {
		filter = &domain.TransactionFilter{}
	}

	req := pagination.PageRequest{Page: page, Size: size}

	transactions, total, err := s.transactionRepo.List(ctx, filter, req)
	if err != nil {
		return nil, err
	}

	return pagination.NewPage(transactions, req, total), nil
}

// ListTasks returns the tasks of a workflow instance in timestamp order
func (s *QueryService) ListTasks(ctx context.Context, workflowInstanceKey int64) ([]domain.Task, error) {
	tasks, err := s.taskRepo.ListByWorkflowInstanceKey(ctx, workflowInstanceKey)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// ListVariables returns the variables of a workflow instance in timestamp order
func (s *QueryService) ListVariables(ctx context.Context, workflowInstanceKey int64) ([]domain.Variable, error) {
	variables, err := s.variableRepo.ListByWorkflowInstanceKey(ctx, workflowInstanceKey)
	if err != nil {
		return nil, err
	}
	if variables == nil {
		variables = []domain.Variable{}
	}
	return variables, nil
}

// ListBusinessKeys returns every row for the key and type in resolution order
func (s *QueryService) ListBusinessKeys(ctx context.Context, businessKey, businessKeyType string) ([]domain.BusinessKey, error) {
	keys, err := s.businessKeyRepo.ListByKeyAndType(ctx, businessKey, businessKeyType)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []domain.BusinessKey{}
	}
	return keys, nil
}

// GetTransactionDetail composes a transaction with its tasks and variables.
// Tasks and variables are returned even when the transaction row is missing.
func (s *QueryService) GetTransactionDetail(ctx context.Context, workflowInstanceKey int64) (*domain.TransactionDetail, error) {
	transaction, err := s.GetTransaction(ctx, workflowInstanceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	tasks, err := s.ListTasks(ctx, workflowInstanceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	variables, err := s.ListVariables(ctx, workflowInstanceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get variables: %w", err)
	}

	return &domain.TransactionDetail{
		Transaction: transaction,
		Tasks:       tasks,
		Variables:   variables,
	}, nil
}
