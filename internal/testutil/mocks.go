// Package testutil provides shared test utilities for the operations API.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/phee/operations/api/internal/domain"
	"github.com/phee/operations/api/internal/pkg/pagination"
)

// MockTransactionRepository is a testify mock of the transaction repository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) GetByWorkflowInstanceKey(ctx context.Context, workflowInstanceKey int64) (*domain.Transaction, error) {
	args := m.Called(ctx, workflowInstanceKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter *domain.TransactionFilter, req pagination.PageRequest) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, filter, req)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

// MockTaskRepository is a testify mock of the task repository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) ListByWorkflowInstanceKey(ctx context.Context, workflowInstanceKey int64) ([]domain.Task, error) {
	args := m.Called(ctx, workflowInstanceKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

// MockVariableRepository is a testify mock of the variable repository.
type MockVariableRepository struct {
	mock.Mock
}

func (m *MockVariableRepository) ListByWorkflowInstanceKey(ctx context.Context, workflowInstanceKey int64) ([]domain.Variable, error) {
	args := m.Called(ctx, workflowInstanceKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Variable), args.Error(1)
}

// MockBusinessKeyRepository is a testify mock of the business key repository.
type MockBusinessKeyRepository struct {
	mock.Mock
}

func (m *MockBusinessKeyRepository) ListByKeyAndType(ctx context.Context, businessKey, businessKeyType string) ([]domain.BusinessKey, error) {
	args := m.Called(ctx, businessKey, businessKeyType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BusinessKey), args.Error(1)
}

// Repositories bundles one mock per repository interface.
type Repositories struct {
	Transactions *MockTransactionRepository
	Tasks        *MockTaskRepository
	Variables    *MockVariableRepository
	BusinessKeys *MockBusinessKeyRepository
}

// NewRepositories returns a fresh set of repository mocks.
func NewRepositories() *Repositories {
	return &Repositories{
		Transactions: new(MockTransactionRepository),
		Tasks:        new(MockTaskRepository),
		Variables:    new(MockVariableRepository),
		BusinessKeys: new(MockBusinessKeyRepository),
	}
}

// AssertExpectations asserts the expectations of every mock in the set.
func (r *Repositories) AssertExpectations(t mock.TestingT) {
	r.Transactions.AssertExpectations(t)
	r.Tasks.AssertExpectations(t)
	r.Variables.AssertExpectations(t)
	r.BusinessKeys.AssertExpectations(t)
}
