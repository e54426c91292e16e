package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateLimitKeyPrefix = "phee-operations:ratelimit:"

// RateLimitConfig configures the rate limiter. Zero fields take the values
// of DefaultRateLimitConfig.
type RateLimitConfig struct {
	Max          int
	Window       time.Duration
	KeyGenerator func(*fiber.Ctx) string
	Skip         func(*fiber.Ctx) bool
	LimitReached fiber.Handler
	Logger       *zap.Logger
}

// DefaultRateLimitConfig allows 600 requests per client IP per minute
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Max:          600,
		Window:       time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		Skip:         HealthSkipper,
		LimitReached: tooManyRequests,
		Logger:       zap.NewNop(),
	}
}

func (cfg RateLimitConfig) withDefaults() RateLimitConfig {
	def := DefaultRateLimitConfig()
	if cfg.Max <= 0 {
		cfg.Max = def.Max
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = def.KeyGenerator
	}
	if cfg.Skip == nil {
		cfg.Skip = def.Skip
	}
	if cfg.LimitReached == nil {
		cfg.LimitReached = def.LimitReached
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	return cfg
}

func tooManyRequests(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
		Error:     "Too Many Requests",
		Message:   "Rate limit exceeded. Please try again later.",
		RequestID: GetRequestID(c),
	})
}

// RateLimitMiddleware keeps a sliding window per client as a Redis sorted
// set scored by request time in microseconds
type RateLimitMiddleware struct {
	redis  *redis.Client
	config RateLimitConfig
}

func NewRateLimitMiddleware(client *redis.Client, config ...RateLimitConfig) *RateLimitMiddleware {
	var cfg RateLimitConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	return &RateLimitMiddleware{redis: client, config: cfg.withDefaults()}
}

// Handler enforces the limit. Redis failures let the request through.
func (m *RateLimitMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.config.Skip(c) {
			return c.Next()
		}

		ctx := c.UserContext()
		key := rateLimitKeyPrefix + m.config.KeyGenerator(c)
		now := time.Now()

		used, err := m.inWindow(ctx, key, now)
		if err != nil {
			m.config.Logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(m.config.Max))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(m.config.Window).Unix(), 10))

		if used >= m.config.Max {
			c.Set("X-RateLimit-Remaining", "0")
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(m.config.Window/time.Second)))
			return m.config.LimitReached(c)
		}

		if err := m.record(ctx, key, now, GetRequestID(c)); err != nil {
			m.config.Logger.Warn("rate limiter failed to record request", zap.Error(err))
		}
		c.Set("X-RateLimit-Remaining", strconv.Itoa(m.config.Max-used-1))

		return c.Next()
	}
}

// inWindow evicts entries older than the window and counts the rest
func (m *RateLimitMiddleware) inWindow(ctx context.Context, key string, now time.Time) (int, error) {
	cutoff := strconv.FormatInt(now.Add(-m.config.Window).UnixMicro(), 10)

	var card *redis.IntCmd
	_, err := m.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", cutoff)
		card = pipe.ZCard(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(card.Val()), nil
}

// record adds one request to the window. The member embeds the request ID
// so concurrent requests in the same microsecond are not merged.
func (m *RateLimitMiddleware) record(ctx context.Context, key string, now time.Time, requestID string) error {
	member := strconv.FormatInt(now.UnixNano(), 10) + ":" + requestID
	_, err := m.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMicro()), Member: member})
		pipe.Expire(ctx, key, 2*m.config.Window)
		return nil
	})
	return err
}
