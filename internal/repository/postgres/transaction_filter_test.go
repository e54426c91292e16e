package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/phee/operations/api/internal/domain"
)

func TestBuildTransactionWhere(t *testing.T) {
	status := domain.TransactionStatusCompleted
	amount := decimal.RequireFromString("10.50")

	tests := []struct {
		name      string
		filter    *domain.TransactionFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "nil filter",
			filter:    nil,
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "empty filter",
			filter:    &domain.TransactionFilter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "single field",
			filter:    &domain.TransactionFilter{Currency: ptr("USD")},
			wantWhere: "WHERE currency = $1",
			wantArgs:  []any{"USD"},
		},
		{
			name: "every field in column order",
			filter: &domain.TransactionFilter{
				PayerPartyID:  ptr("payer"),
				PayeePartyID:  ptr("payee"),
				PayeeDfspID:   ptr("dfsp"),
				TransactionID: ptr("tx-1"),
				Status:        &status,
				Amount:        &amount,
				Currency:      ptr("EUR"),
			},
			wantWhere: "WHERE payer_party_id = $1 AND payee_party_id = $2 AND payee_dfsp_id = $3 AND " +
				"transaction_id = $4 AND status = $5 AND amount = $6 AND currency = $7",
			wantArgs: []any{"payer", "payee", "dfsp", "tx-1", "COMPLETED", "10.5", "EUR"},
		},
		{
			name:      "empty string is still a constraint",
			filter:    &domain.TransactionFilter{PayerPartyID: ptr("")},
			wantWhere: "WHERE payer_party_id = $1",
			wantArgs:  []any{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildTransactionWhere(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSchemaStatements(t *testing.T) {
	statements := schemaStatements(Schema())

	assert.NotEmpty(t, statements)
	for _, stmt := range statements {
		assert.NotContains(t, stmt, ";")
	}
	assert.Contains(t, Schema(), "CREATE TABLE IF NOT EXISTS transactions")
	assert.Contains(t, Schema(), "CREATE TABLE IF NOT EXISTS business_keys")

	assert.Equal(t, []string{"SELECT 1", "SELECT 2"}, schemaStatements(" SELECT 1;\n\n SELECT 2 ;\n"))
	assert.Equal(t, "CREATE TABLE x (", firstLine("CREATE TABLE x (\n id INT\n)"))
}
