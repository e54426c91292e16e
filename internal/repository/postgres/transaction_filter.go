package postgres

import (
	"fmt"
	"strings"

	"github.com/phee/operations/api/internal/domain"
)

// buildTransactionWhere turns the non-nil fields of filter into a conjunction
// of equality predicates with positional placeholders starting at $1
func buildTransactionWhere(filter *domain.TransactionFilter) (string, []any) {
	if filter.IsEmpty() {
		return "", nil
	}

	var conditions []string
	var args []any
	argNum := 1

	eq := func(column string, value any) {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if filter.PayerPartyID != nil {
		eq("payer_party_id", *filter.PayerPartyID)
	}
	if filter.PayeePartyID != nil {
		eq("payee_party_id", *filter.PayeePartyID)
	}
	if filter.PayeeDfspID != nil {
		eq("payee_dfsp_id", *filter.PayeeDfspID)
	}
	if filter.TransactionID != nil {
		eq("transaction_id", *filter.TransactionID)
	}
	if filter.Status != nil {
		eq("status", string(*filter.Status))
	}
	if filter.Amount != nil {
		eq("amount", filter.Amount.String())
	}
	if filter.Currency != nil {
		eq("currency", *filter.Currency)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}
