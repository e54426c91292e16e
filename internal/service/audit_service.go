package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/phee/operations/api/internal/domain"
	"github.com/phee/operations/api/internal/pkg/logger"
	"github.com/phee/operations/api/internal/pkg/metrics"
)

// AuditService resolves business keys into per-workflow-instance audit trails
type AuditService struct {
	queries *QueryService
}

// NewAuditService creates a new audit service
func NewAuditService(queries *QueryService) *AuditService {
	return &AuditService{queries: queries}
}

// ResolveTasksByBusinessKey returns one task list per business key row, in
// the order the rows resolved. Rows sharing a workflow instance are not
// collapsed.
func (s *AuditService) ResolveTasksByBusinessKey(ctx context.Context, businessKey, businessKeyType string) ([][]domain.Task, error) {
	return resolve(ctx, s, "tasks", businessKey, businessKeyType, s.queries.ListTasks)
}

// ResolveVariablesByBusinessKey returns one variable list per business key
// row, in the order the rows resolved
func (s *AuditService) ResolveVariablesByBusinessKey(ctx context.Context, businessKey, businessKeyType string) ([][]domain.Variable, error) {
	return resolve(ctx, s, "variables", businessKey, businessKeyType, s.queries.ListVariables)
}

func resolve[T any](
	ctx context.Context,
	s *AuditService,
	child, businessKey, businessKeyType string,
	load func(context.Context, int64) ([]T, error),
) ([][]T, error) {
	keys, err := s.queries.ListBusinessKeys(ctx, businessKey, businessKeyType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve business key: %w", err)
	}

	logger.FromContext(ctx).Debug("loaded transactions for business key",
		zap.Int("count", len(keys)),
		zap.String("business_key", businessKey),
		zap.String("business_key_type", businessKeyType),
	)
	metrics.RecordBusinessKeyResolution(child, len(keys))

	result := make([][]T, 0, len(keys))
	for _, key := range keys {
		rows, err := load(ctx, key.WorkflowInstanceKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s for workflow instance %d: %w", child, key.WorkflowInstanceKey, err)
		}
		result = append(result, rows)
	}

	return result, nil
}
