package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	apperrors "github.com/phee/operations/api/internal/pkg/errors"
	"github.com/phee/operations/api/internal/validator"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error     string                     `json:"error"`
	Message   string                     `json:"message"`
	Details   validator.ValidationErrors `json:"details,omitempty"`
	RequestID string                     `json:"request_id,omitempty"`
}

// errorStatus maps an error returned by a handler to its HTTP status
func errorStatus(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	if validator.IsValidationError(err) {
		return fiber.StatusBadRequest
	}
	return apperrors.GetStatusCode(err)
}

// ErrorHandler renders handler errors as JSON. Server errors are logged,
// reported to Sentry when enabled and answered with a generic message.
func ErrorHandler(logger *zap.Logger, sentryEnabled bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := errorStatus(err)
		resp := ErrorResponse{
			Error:     utils.StatusMessage(status),
			Message:   err.Error(),
			RequestID: GetRequestID(c),
		}

		var fiberErr *fiber.Error
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			resp.Message = "invalid request parameters"
			resp.Details = validationErrs
		case errors.As(err, &fiberErr):
			resp.Message = fiberErr.Message
		default:
			if appErr := apperrors.GetAppError(err); appErr != nil {
				resp.Message = appErr.Message
			}
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("request_id", resp.RequestID),
			)
			if sentryEnabled {
				CaptureError(c, err)
			}
			resp.Message = "An unexpected error occurred"
		}

		return c.Status(status).JSON(resp)
	}
}
