package testutil

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/phee/operations/api/internal/domain"
)

// NewTestTransaction creates a completed transaction for a workflow instance.
func NewTestTransaction(workflowInstanceKey int64) *domain.Transaction {
	status := domain.TransactionStatusCompleted
	payer := "payer-party"
	payee := "payee-party"
	dfsp := "payee-dfsp"
	txID := fmt.Sprintf("tx-%d", workflowInstanceKey)
	currency := "USD"
	started := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	return &domain.Transaction{
		ID:                  workflowInstanceKey,
		WorkflowInstanceKey: workflowInstanceKey,
		PayerPartyID:        &payer,
		PayeePartyID:        &payee,
		PayeeDfspID:         &dfsp,
		TransactionID:       &txID,
		Status:              &status,
		Amount:              decimal.NewNullDecimal(decimal.RequireFromString("100.25")),
		Currency:            &currency,
		StartedAt:           &started,
	}
}

// NewTestTask creates a task of a workflow instance at the given epoch millis.
func NewTestTask(id, workflowInstanceKey, timestamp int64) domain.Task {
	return domain.Task{
		ID:                  id,
		WorkflowKey:         1,
		WorkflowInstanceKey: workflowInstanceKey,
		Timestamp:           timestamp,
		ElementID:           "task-element",
		Type:                "serviceTask",
		Name:                "test-task",
		Outcome:             "COMPLETED",
	}
}

// NewTestVariable creates a variable snapshot of a workflow instance.
func NewTestVariable(id, workflowInstanceKey, timestamp int64, name, value string) domain.Variable {
	return domain.Variable{
		ID:                  id,
		WorkflowKey:         1,
		WorkflowInstanceKey: workflowInstanceKey,
		Timestamp:           timestamp,
		Name:                name,
		Value:               value,
	}
}

// NewTestBusinessKey creates a business key row resolving to a workflow instance.
func NewTestBusinessKey(id int64, key, keyType string, workflowInstanceKey int64) domain.BusinessKey {
	return domain.BusinessKey{
		ID:                  id,
		BusinessKey:         key,
		BusinessKeyType:     keyType,
		WorkflowInstanceKey: workflowInstanceKey,
		Timestamp:           id * 1000,
	}
}
