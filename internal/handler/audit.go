package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/phee/operations/api/internal/domain"
	apperrors "github.com/phee/operations/api/internal/pkg/errors"
)

// BusinessKeyResolver is the part of the audit service the business key
// endpoints use
type BusinessKeyResolver interface {
	ResolveTasksByBusinessKey(ctx context.Context, businessKey, businessKeyType string) ([][]domain.Task, error)
	ResolveVariablesByBusinessKey(ctx context.Context, businessKey, businessKeyType string) ([][]domain.Variable, error)
}

// AuditHandler handles business key audit trail endpoints
type AuditHandler struct {
	resolver BusinessKeyResolver
	logger   *zap.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(resolver BusinessKeyResolver, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		resolver: resolver,
		logger:   logger,
	}
}

func businessKeyParams(c *fiber.Ctx) (string, string, error) {
	businessKey, err := requiredQuery(c, "businessKey")
	if err != nil {
		return "", "", err
	}
	businessKeyType, err := requiredQuery(c, "businessKeyType")
	if err != nil {
		return "", "", err
	}
	return businessKey, businessKeyType, nil
}

// ListTasks handles GET /tasks
func (h *AuditHandler) ListTasks(c *fiber.Ctx) error {
	businessKey, businessKeyType, err := businessKeyParams(c)
	if err != nil {
		return err
	}

	tasks, err := h.resolver.ResolveTasksByBusinessKey(c.UserContext(), businessKey, businessKeyType)
	if err != nil {
		return apperrors.Internal("failed to load tasks").WithError(err)
	}

	return c.JSON(tasks)
}

// ListVariables handles GET /variables
func (h *AuditHandler) ListVariables(c *fiber.Ctx) error {
	businessKey, businessKeyType, err := businessKeyParams(c)
	if err != nil {
		return err
	}

	variables, err := h.resolver.ResolveVariablesByBusinessKey(c.UserContext(), businessKey, businessKeyType)
	if err != nil {
		return apperrors.Internal("failed to load variables").WithError(err)
	}

	return c.JSON(variables)
}

// RegisterRoutes registers business key routes
func (h *AuditHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/tasks", h.ListTasks)
	app.Get("/variables", h.ListVariables)
}
