package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/phee/operations/api/internal/pkg/logger"
)

const (
	requestIDLocal = "requestID"

	// maxRequestIDLength bounds caller-supplied IDs before they reach logs
	maxRequestIDLength = 128
)

// RequestIDConfig selects the header carrying the ID and how missing IDs
// are minted
type RequestIDConfig struct {
	Header    string
	Generator func() string
}

// DefaultRequestIDConfig propagates X-Request-ID and mints UUIDv4 values
func DefaultRequestIDConfig() RequestIDConfig {
	return RequestIDConfig{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}
}

// RequestID tags every request with an ID. A usable incoming ID is kept,
// anything else is replaced. The ID is echoed in the response header and
// is readable through GetRequestID and the request's user context.
func RequestID(config ...RequestIDConfig) fiber.Handler {
	cfg := DefaultRequestIDConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		id := c.Get(cfg.Header)
		if !usableRequestID(id) {
			id = cfg.Generator()
		}

		c.Set(cfg.Header, id)
		c.Locals(requestIDLocal, id)
		c.SetUserContext(logger.ContextWithRequestID(c.UserContext(), id))

		return c.Next()
	}
}

// usableRequestID accepts short printable ASCII only
func usableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the ID assigned by RequestID, or "" outside it
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocal).(string)
	return id
}

// RequestIDFromContext reads the ID from a request's user context
func RequestIDFromContext(ctx context.Context) string {
	return logger.RequestID(ctx)
}
