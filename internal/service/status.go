package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/phee/operations/api/internal/domain"
	"github.com/phee/operations/api/internal/pkg/logger"
)

// ParseTransactionStatus maps a raw query value onto a status. Matching is
// exact and case-sensitive. Anything else, the empty string included, is
// logged and yields nil, so the caller applies no status filter.
func ParseTransactionStatus(ctx context.Context, raw string) *domain.TransactionStatus {
	status := domain.TransactionStatus(raw)
	if !status.IsValid() {
		logger.FromContext(ctx).Warn("failed to parse transaction status, ignoring it",
			zap.String("status", raw),
			zap.Any("accepted", domain.TransactionStatuses()),
		)
		return nil
	}

	return &status
}
