package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of a transaction
type TransactionStatus string

const (
	TransactionStatusInProgress TransactionStatus = "IN_PROGRESS"
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusCompleted  TransactionStatus = "COMPLETED"
	TransactionStatusFailed     TransactionStatus = "FAILED"
	TransactionStatusUnknown    TransactionStatus = "UNKNOWN"
)

// IsValid checks if the transaction status is valid
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusInProgress, TransactionStatusPending, TransactionStatusCompleted,
		TransactionStatusFailed, TransactionStatusUnknown:
		return true
	}
	return false
}

// TransactionStatuses lists every known status in declaration order
func TransactionStatuses() []TransactionStatus {
	return []TransactionStatus{
		TransactionStatusInProgress,
		TransactionStatusPending,
		TransactionStatusCompleted,
		TransactionStatusFailed,
		TransactionStatusUnknown,
	}
}

// Transaction is one business transaction driven by a workflow instance.
// Every column except the identifiers may be null in storage.
type Transaction struct {
	ID                  int64               `json:"id" db:"id"`
	WorkflowInstanceKey int64               `json:"workflowInstanceKey" db:"workflow_instance_key"`
	PayerPartyID        *string             `json:"payerPartyId" db:"payer_party_id"`
	PayeePartyID        *string             `json:"payeePartyId" db:"payee_party_id"`
	PayeeDfspID         *string             `json:"payeeDfspId" db:"payee_dfsp_id"`
	TransactionID       *string             `json:"transactionId" db:"transaction_id"`
	Status              *TransactionStatus  `json:"status" db:"status"`
	Amount              decimal.NullDecimal `json:"amount" db:"amount"`
	Currency            *string             `json:"currency" db:"currency"`
	StartedAt           *time.Time          `json:"startedAt" db:"started_at"`
	CompletedAt         *time.Time          `json:"completedAt" db:"completed_at"`
}

// TransactionFilter holds the example-matching predicates for transaction
// listing. A nil field places no constraint on its column; a non-nil field
// requires exact equality.
type TransactionFilter struct {
	PayerPartyID  *string
	PayeePartyID  *string
	PayeeDfspID   *string
	TransactionID *string
	Status        *TransactionStatus
	Amount        *decimal.Decimal
	Currency      *string
}

// IsEmpty reports whether the filter constrains nothing
func (f *TransactionFilter) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.PayerPartyID == nil && f.PayeePartyID == nil && f.PayeeDfspID == nil &&
		f.TransactionID == nil && f.Status == nil && f.Amount == nil && f.Currency == nil
}

// TransactionDetail is a transaction together with its ordered audit trail.
// Transaction is nil when no transaction exists for the workflow instance.
type TransactionDetail struct {
	Transaction *Transaction `json:"transaction"`
	Tasks       []Task       `json:"tasks"`
	Variables   []Variable   `json:"variables"`
}
