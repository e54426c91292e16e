package middleware

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"github.com/phee/operations/api/internal/config"
)

const sentryHubLocal = "sentry_hub"

// InitSentry starts the Sentry client. Nothing is initialized unless
// reporting is enabled and a DSN is set.
func InitSentry(cfg config.SentryConfig) error {
	if !cfg.Enabled || cfg.DSN == "" {
		return nil
	}

	opts := sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		Debug:            cfg.Debug,
		SampleRate:       cfg.SampleRate,
		TracesSampleRate: cfg.TracesSampleRate,
		AttachStacktrace: true,
	}
	if err := sentry.Init(opts); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// FlushSentry waits up to timeout for queued events to be sent
func FlushSentry(timeout time.Duration) {
	sentry.Flush(timeout)
}

// CaptureError reports err on the request's hub
func CaptureError(c *fiber.Ctx, err error) {
	requestHub(c).CaptureException(err)
}

// requestHub returns the hub bound by Recover, or a fresh clone scoped to
// the request when none was bound
func requestHub(c *fiber.Ctx) *sentry.Hub {
	if hub, ok := c.Locals(sentryHubLocal).(*sentry.Hub); ok && hub != nil {
		return hub
	}
	hub := sentry.CurrentHub().Clone()
	scopeRequest(hub.Scope(), c)
	return hub
}

// scopeRequest copies request metadata onto scope. Credentials are left out.
func scopeRequest(scope *sentry.Scope, c *fiber.Ctx) {
	headers := map[string]string{}
	c.Request().Header.VisitAll(func(key, value []byte) {
		switch name := string(key); name {
		case fiber.HeaderAuthorization, fiber.HeaderCookie, fiber.HeaderProxyAuthorization:
		default:
			headers[name] = string(value)
		}
	})

	scope.SetTag("request_id", GetRequestID(c))
	scope.SetTag("route", routePattern(c))
	scope.SetContext("Request", map[string]any{
		"method":       c.Method(),
		"url":          c.OriginalURL(),
		"query_string": string(c.Request().URI().QueryString()),
		"remote_addr":  c.IP(),
		"headers":      headers,
	})
}
