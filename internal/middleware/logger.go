package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig configures the access log middleware
type LoggerConfig struct {
	Logger *zap.Logger
	// Skip excludes requests from the access log
	Skip func(*fiber.Ctx) bool
	// SlowThreshold raises successful requests slower than it to warn.
	// Zero disables the check.
	SlowThreshold time.Duration
}

// DefaultLoggerConfig skips probe and scrape endpoints and flags requests
// slower than one second
func DefaultLoggerConfig(logger *zap.Logger) LoggerConfig {
	return LoggerConfig{
		Logger:        logger,
		Skip:          HealthSkipper,
		SlowThreshold: time.Second,
	}
}

// LoggerMiddleware writes one access log entry per request
type LoggerMiddleware struct {
	config LoggerConfig
}

func NewLoggerMiddleware(config LoggerConfig) *LoggerMiddleware {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &LoggerMiddleware{config: config}
}

// Handler must run after RequestID. Errors are logged with the status the
// error handler will render, since the response is not written yet.
func (m *LoggerMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.config.Skip != nil && m.config.Skip(c) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status = errorStatus(err)
		}

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Method()),
			zap.String("route", routePattern(c)),
			zap.String("path", c.Path()),
			zap.String("query", string(c.Request().URI().QueryString())),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}

		m.config.Logger.Log(m.level(status, latency), "request completed", fields...)

		return err
	}
}

func (m *LoggerMiddleware) level(status int, latency time.Duration) zapcore.Level {
	switch {
	case status >= fiber.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= fiber.StatusBadRequest:
		return zapcore.WarnLevel
	case m.config.SlowThreshold > 0 && latency > m.config.SlowThreshold:
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

// HealthSkipper matches the probe and scrape endpoints
func HealthSkipper(c *fiber.Ctx) bool {
	switch c.Path() {
	case "/healthz", "/readyz", "/livez", "/metrics":
		return true
	}
	return false
}
