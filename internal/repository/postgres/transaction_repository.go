package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/phee/operations/api/internal/domain"
	"github.com/phee/operations/api/internal/pkg/database"
	"github.com/phee/operations/api/internal/pkg/pagination"
)

const transactionColumns = `id, workflow_instance_key, payer_party_id, payee_party_id, payee_dfsp_id,
	transaction_id, status, amount::text, currency, started_at, completed_at`

// TransactionRepository handles transaction reads in PostgreSQL
type TransactionRepository struct {
	db *database.PostgresDB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.PostgresDB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetByWorkflowInstanceKey returns the transaction driven by a workflow
// instance, or nil when there is none. If several rows share the key the one
// started last wins, then the highest id.
func (r *TransactionRepository) GetByWorkflowInstanceKey(ctx context.Context, workflowInstanceKey int64) (*domain.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE workflow_instance_key = $1
		ORDER BY started_at DESC NULLS LAST, id DESC
		LIMIT 1
	`, transactionColumns)

	tx, err := scanTransaction(r.db.Pool.QueryRow(ctx, query, workflowInstanceKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// List returns one page of transactions matching filter, ordered by start
// time, together with the total number of matching rows
func (r *TransactionRepository) List(ctx context.Context, filter *domain.TransactionFilter, req pagination.PageRequest) ([]domain.Transaction, int64, error) {
	whereClause, args := buildTransactionWhere(filter)

	// Get total count
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", whereClause)
	var total int64
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	transactions := []domain.Transaction{}
	if total == 0 || int64(req.Offset()) >= total {
		return transactions, total, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		%s
		ORDER BY started_at ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, transactionColumns, whereClause, len(args)+1, len(args)+2)

	rows, err := r.db.Pool.Query(ctx, query, append(args, req.Limit(), req.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, total, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	var status, amount *string

	err := row.Scan(
		&tx.ID,
		&tx.WorkflowInstanceKey,
		&tx.PayerPartyID,
		&tx.PayeePartyID,
		&tx.PayeeDfspID,
		&tx.TransactionID,
		&status,
		&amount,
		&tx.Currency,
		&tx.StartedAt,
		&tx.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if status != nil {
		s := domain.TransactionStatus(*status)
		tx.Status = &s
	}
	if amount != nil {
		if err := tx.Amount.Scan(*amount); err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", *amount, err)
		}
	}

	return &tx, nil
}
