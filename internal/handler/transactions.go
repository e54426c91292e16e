package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/phee/operations/api/internal/domain"
	apperrors "github.com/phee/operations/api/internal/pkg/errors"
	"github.com/phee/operations/api/internal/pkg/pagination"
	"github.com/phee/operations/api/internal/service"
	"github.com/phee/operations/api/internal/validator"
)

// TransactionQuerier is the part of the query service the transaction
// endpoints use
type TransactionQuerier interface {
	GetTransactionDetail(ctx context.Context, workflowInstanceKey int64) (*domain.TransactionDetail, error)
	ListTransactions(ctx context.Context, filter *domain.TransactionFilter, page, size int) (*pagination.Page[domain.Transaction], error)
}

// TransactionsHandler handles transaction query endpoints
type TransactionsHandler struct {
	queries     TransactionQuerier
	logger      *zap.Logger
	maxPageSize int
}

// NewTransactionsHandler creates a new transactions handler. A non-positive
// maxPageSize leaves the page size unbounded.
func NewTransactionsHandler(queries TransactionQuerier, logger *zap.Logger, maxPageSize int) *TransactionsHandler {
	return &TransactionsHandler{
		queries:     queries,
		logger:      logger,
		maxPageSize: maxPageSize,
	}
}

// listTransactionsParams are the numeric parameters of GET /transactions.
// String filters are read separately so an empty value stays distinct from
// an absent one.
type listTransactionsParams struct {
	Page   *int   `query:"page" validate:"required,gte=0"`
	Size   *int   `query:"size" validate:"required,gte=1"`
	Amount string `query:"amount" validate:"omitempty,decimal"`
}

// GetTransaction handles GET /transaction/:workflowInstanceKey
func (h *TransactionsHandler) GetTransaction(c *fiber.Ctx) error {
	workflowInstanceKey, err := parseInt64Param(c, "workflowInstanceKey")
	if err != nil {
		return err
	}

	detail, err := h.queries.GetTransactionDetail(c.UserContext(), workflowInstanceKey)
	if err != nil {
		return apperrors.Internal("failed to load transaction").WithError(err)
	}

	return c.JSON(detail)
}

// ListTransactions handles GET /transactions
func (h *TransactionsHandler) ListTransactions(c *fiber.Ctx) error {
	var params listTransactionsParams
	if err := c.QueryParser(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters: "+err.Error())
	}
	if err := validator.Validate(params); err != nil {
		return err
	}
	if h.maxPageSize > 0 && *params.Size > h.maxPageSize {
		return validator.ValidationErrors{{
			Field:   "size",
			Message: "must be less than or equal to " + strconv.Itoa(h.maxPageSize),
		}}
	}

	if maxPage := pagination.MaxPage(*params.Size); *params.Page > maxPage {
		return validator.ValidationErrors{{
			Field:   "page",
			Message: "must be less than or equal to " + strconv.Itoa(maxPage),
		}}
	}

	filter, err := h.parseFilter(c, params)
	if err != nil {
		return err
	}

	page, err := h.queries.ListTransactions(c.UserContext(), filter, *params.Page, *params.Size)
	if err != nil {
		return apperrors.Internal("failed to list transactions").WithError(err)
	}

	return c.JSON(page)
}

func (h *TransactionsHandler) parseFilter(c *fiber.Ctx, params listTransactionsParams) (*domain.TransactionFilter, error) {
	filter := &domain.TransactionFilter{
		PayerPartyID:  optionalQuery(c, "payerPartyId"),
		PayeePartyID:  optionalQuery(c, "payeePartyId"),
		PayeeDfspID:   optionalQuery(c, "payeeDfspId"),
		TransactionID: optionalQuery(c, "transactionId"),
		Currency:      optionalQuery(c, "currency"),
	}

	if raw := optionalQuery(c, "transactionStatus"); raw != nil {
		filter.Status = service.ParseTransactionStatus(c.UserContext(), *raw)
	}

	if params.Amount != "" {
		amount, err := decimal.NewFromString(params.Amount)
		if err != nil {
			return nil, apperrors.BadRequest("amount must be a decimal number").WithError(err)
		}
		filter.Amount = &amount
	}

	if logger := h.logger; logger != nil && !filter.IsEmpty() {
		logger.Debug("listing transactions with filter", zap.Any("filter", filter))
	}

	return filter, nil
}

// RegisterRoutes registers transaction routes
func (h *TransactionsHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/transaction/:workflowInstanceKey", h.GetTransaction)
	app.Get("/transactions", h.ListTransactions)
}
