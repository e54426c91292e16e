package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phee/operations/api/internal/domain"
	"github.com/phee/operations/api/internal/pkg/logger"
	"github.com/phee/operations/api/internal/pkg/pagination"
	"github.com/phee/operations/api/internal/testutil"
)

func newTestQueryService() (*QueryService, *testutil.Repositories) {
	repos := testutil.NewRepositories()
	return NewQueryService(repos.Transactions, repos.Tasks, repos.Variables, repos.BusinessKeys), repos
}

func TestQueryService_GetTransaction(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, repos := newTestQueryService()
		tx := testutil.NewTestTransaction(42)
		repos.Transactions.On("GetByWorkflowInstanceKey", mock.Anything, int64(42)).Return(tx, nil)

		result, err := svc.GetTransaction(context.Background(), 42)

		require.NoError(t, err)
		assert.Equal(t, tx, result)
		repos.AssertExpectations(t)
	})

	t.Run("absent", func(t *testing.T) {
		svc, repos := newTestQueryService()
		repos.Transactions.On("GetByWorkflowInstanceKey", mock.Anything, int64(7)).Return(nil, nil)

		result, err := svc.GetTransaction(context.Background(), 7)

		require.NoError(t, err)
		assert.Nil(t, result)
	})
}

func TestQueryService_ListTransactions(t *testing.T) {
	t.Run("builds page envelope", func(t *testing.T) {
		svc, repos := newTestQueryService()
		items := make([]domain.Transaction, 10)
		repos.Transactions.On("List", mock.Anything, &domain.TransactionFilter{}, pagination.PageRequest{Page: 0, Size: 10}).
			Return(items, int64(25), nil)

		page, err := svc.ListTransactions(context.Background(), nil, 0, 10)

		require.NoError(t, err)
		assert.Len(t, page.Content, 10)
		assert.Equal(t, int64(25), page.TotalElements)
		assert.Equal(t, 3, page.TotalPages)
		assert.True(t, page.First)
		assert.False(t, page.Last)
		repos.AssertExpectations(t)
	})

	t.Run("passes filter through", func(t *testing.T) {
		svc, repos := newTestQueryService()
		currency := "EUR"
		filter := &domain.TransactionFilter{Currency: &currency}
		repos.Transactions.On("List", mock.Anything, filter, pagination.PageRequest{Page: 2, Size: 10}).
			Return(make([]domain.Transaction, 5), int64(25), nil)

		page, err := svc.ListTransactions(context.Background(), filter, 2, 10)

		require.NoError(t, err)
		assert.Equal(t, 5, page.NumberOfElements)
		assert.True(t, page.Last)
	})

	t.Run("store error", func(t *testing.T) {
		svc, repos := newTestQueryService()
		repos.Transactions.On("List", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, int64(0), errors.New("connection reset"))

		page, err := svc.ListTransactions(context.Background(), nil, 0, 10)

		assert.Error(t, err)
		assert.Nil(t, page)
	})
}

func TestQueryService_ListTasksAndVariables(t *testing.T) {
	t.Run("nil from store becomes empty slice", func(t *testing.T) {
		svc, repos := newTestQueryService()
		repos.Tasks.On("ListByWorkflowInstanceKey", mock.Anything, int64(1)).Return(nil, nil)
		repos.Variables.On("ListByWorkflowInstanceKey", mock.Anything, int64(1)).Return(nil, nil)
		repos.BusinessKeys.On("ListByKeyAndType", mock.Anything, "k", "t").Return(nil, nil)

		tasks, err := svc.ListTasks(context.Background(), 1)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)

		variables, err := svc.ListVariables(context.Background(), 1)
		require.NoError(t, err)
		assert.NotNil(t, variables)

		keys, err := svc.ListBusinessKeys(context.Background(), "k", "t")
		require.NoError(t, err)
		assert.NotNil(t, keys)
	})

	t.Run("preserves store order", func(t *testing.T) {
		svc, repos := newTestQueryService()
		tasks := []domain.Task{testutil.NewTestTask(1, 5, 100), testutil.NewTestTask(2, 5, 200)}
		repos.Tasks.On("ListByWorkflowInstanceKey", mock.Anything, int64(5)).Return(tasks, nil)

		result, err := svc.ListTasks(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, tasks, result)
	})
}

func TestQueryService_GetTransactionDetail(t *testing.T) {
	t.Run("composes all three reads", func(t *testing.T) {
		svc, repos := newTestQueryService()
		tx := testutil.NewTestTransaction(9)
		tasks := []domain.Task{testutil.NewTestTask(1, 9, 10)}
		variables := []domain.Variable{testutil.NewTestVariable(1, 9, 10, "amount", "100")}
		repos.Transactions.On("GetByWorkflowInstanceKey", mock.Anything, int64(9)).Return(tx, nil)
		repos.Tasks.On("ListByWorkflowInstanceKey", mock.Anything, int64(9)).Return(tasks, nil)
		repos.Variables.On("ListByWorkflowInstanceKey", mock.Anything, int64(9)).Return(variables, nil)

		detail, err := svc.GetTransactionDetail(context.Background(), 9)

		require.NoError(t, err)
		assert.Equal(t, tx, detail.Transaction)
		assert.Equal(t, tasks, detail.Tasks)
		assert.Equal(t, variables, detail.Variables)
		repos.AssertExpectations(t)
	})

	t.Run("missing transaction still returns children", func(t *testing.T) {
		svc, repos := newTestQueryService()
		repos.Transactions.On("GetByWorkflowInstanceKey", mock.Anything, int64(3)).Return(nil, nil)
		repos.Tasks.On("ListByWorkflowInstanceKey", mock.Anything, int64(3)).Return([]domain.Task{}, nil)
		repos.Variables.On("ListByWorkflowInstanceKey", mock.Anything, int64(3)).Return([]domain.Variable{}, nil)

		detail, err := svc.GetTransactionDetail(context.Background(), 3)

		require.NoError(t, err)
		assert.Nil(t, detail.Transaction)
		assert.NotNil(t, detail.Tasks)
		assert.NotNil(t, detail.Variables)
	})

	t.Run("child error aborts", func(t *testing.T) {
		svc, repos := newTestQueryService()
		storeErr := errors.New("timeout")
		repos.Transactions.On("GetByWorkflowInstanceKey", mock.Anything, int64(3)).Return(nil, nil)
		repos.Tasks.On("ListByWorkflowInstanceKey", mock.Anything, int64(3)).Return(nil, storeErr)

		detail, err := svc.GetTransactionDetail(context.Background(), 3)

		assert.ErrorIs(t, err, storeErr)
		assert.Nil(t, detail)
		repos.Variables.AssertNotCalled(t, "ListByWorkflowInstanceKey", mock.Anything, mock.Anything)
	})
}

func TestParseTransactionStatus(t *testing.T) {
	tests := []struct {
		raw   string
		want  *domain.TransactionStatus
		warns bool
	}{
		{raw: "COMPLETED", want: statusPtr(domain.TransactionStatusCompleted)},
		{raw: "IN_PROGRESS", want: statusPtr(domain.TransactionStatusInProgress)},
		{raw: "", warns: true},
		{raw: "completed", warns: true},
		{raw: "NOT_A_STATUS", warns: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			logs := testutil.ObserveLogs(t, zapcore.WarnLevel)

			assert.Equal(t, tt.want, ParseTransactionStatus(context.Background(), tt.raw))

			if !tt.warns {
				assert.Zero(t, logs.Len())
				return
			}
			warnings := logs.FilterMessage("failed to parse transaction status, ignoring it").
				FilterField(zap.String("status", tt.raw))
			require.Equal(t, 1, warnings.Len())
			assert.Equal(t, zapcore.WarnLevel, warnings.All()[0].Level)
			assert.Equal(t, domain.TransactionStatuses(), warnings.All()[0].ContextMap()["accepted"])
		})
	}
}

func TestParseTransactionStatus_WarningCarriesRequestID(t *testing.T) {
	logs := testutil.ObserveLogs(t, zapcore.WarnLevel)
	ctx := logger.ContextWithRequestID(context.Background(), "req-7")

	assert.Nil(t, ParseTransactionStatus(ctx, "NOT_A_STATUS"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-7", logs.All()[0].ContextMap()["request_id"])
}

func statusPtr(s domain.TransactionStatus) *domain.TransactionStatus {
	return &s
}
