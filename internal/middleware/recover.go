package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	maxPanicStack      = 8 << 10
	panicFlushDeadline = 2 * time.Second
)

// Recover converts a panic in a later handler into a 500 response. When
// reportPanics is set the request gets its own Sentry hub, which
// CaptureError also uses.
func Recover(log *zap.Logger, reportPanics bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		var hub *sentry.Hub
		if reportPanics {
			hub = sentry.CurrentHub().Clone()
			scopeRequest(hub.Scope(), c)
			c.Locals(sentryHubLocal, hub)
		}

		defer func() {
			r := recover()
			if r == nil {
				return
			}

			stack := debug.Stack()
			if len(stack) > maxPanicStack {
				stack = stack[:maxPanicStack]
			}

			log.Error("panic recovered",
				zap.Error(panicError(r)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("request_id", GetRequestID(c)),
				zap.ByteString("stack", stack),
			)

			if hub != nil {
				hub.Scope().SetLevel(sentry.LevelFatal)
				if id := hub.RecoverWithContext(c.UserContext(), r); id != nil {
					log.Info("panic reported to Sentry", zap.String("event_id", string(*id)))
				}
				hub.Flush(panicFlushDeadline)
			}

			err = c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error:     "Internal Server Error",
				Message:   "An unexpected error occurred",
				RequestID: GetRequestID(c),
			})
		}()

		return c.Next()
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
