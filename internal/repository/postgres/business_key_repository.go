package postgres

import (
	"context"
	"fmt"

	"github.com/phee/operations/api/internal/domain"
	"github.com/phee/operations/api/internal/pkg/database"
)

// BusinessKeyRepository resolves business keys to workflow instances
type BusinessKeyRepository struct {
	db *database.SQLDB
}

// NewBusinessKeyRepository creates a new business key repository
func NewBusinessKeyRepository(db *database.SQLDB) *BusinessKeyRepository {
	return &BusinessKeyRepository{db: db}
}

// ListByKeyAndType returns every row matching both the key and its type.
// Rows come back in id order so repeated lookups resolve identically.
func (r *BusinessKeyRepository) ListByKeyAndType(ctx context.Context, businessKey, businessKeyType string) ([]domain.BusinessKey, error) {
	query := `
		SELECT id, business_key, business_key_type, workflow_instance_key, timestamp
		FROM business_keys
		WHERE business_key = $1 AND business_key_type = $2
		ORDER BY id ASC
	`

	keys := []domain.BusinessKey{}
	if err := r.db.Select(ctx, "list_business_keys", &keys, query, businessKey, businessKeyType); err != nil {
		return nil, fmt.Errorf("failed to list business keys: %w", err)
	}

	return keys, nil
}
