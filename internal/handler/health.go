package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	healthProbeTimeout    = 5 * time.Second
	readinessProbeTimeout = 3 * time.Second
)

// Pinger is a dependency whose reachability gates readiness
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the root, probe and version endpoints
type HealthHandler struct {
	checks    map[string]Pinger
	version   string
	startTime time.Time
}

// NewHealthHandler takes probes keyed by dependency name. Nil probes are
// dropped so optional stores can be passed unconditionally.
func NewHealthHandler(checks map[string]Pinger, version string) *HealthHandler {
	h := &HealthHandler{
		checks:    make(map[string]Pinger, len(checks)),
		version:   version,
		startTime: time.Now(),
	}
	for name, check := range checks {
		if check != nil {
			h.checks[name] = check
		}
	}
	return h
}

// HealthStatus is the /healthz body
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// probe pings every dependency concurrently and returns the failures
func (h *HealthHandler) probe(ctx context.Context, timeout time.Duration) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		failures = map[string]error{}
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func(name string, check Pinger) {
			defer wg.Done()
			if err := check.Ping(ctx); err != nil {
				mu.Lock()
				failures[name] = err
				mu.Unlock()
			}
		}(name, check)
	}
	wg.Wait()

	return failures
}

// Root answers GET / with an empty 200
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	c.Status(fiber.StatusOK)
	return nil
}

// Health reports every dependency and fails with 503 if any is down
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	failures := h.probe(c.UserContext(), healthProbeTimeout)

	body := HealthStatus{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]string, len(h.checks)),
	}
	for name := range h.checks {
		body.Checks[name] = "healthy"
	}
	for name, err := range failures {
		body.Checks[name] = "unhealthy: " + err.Error()
	}

	code := fiber.StatusOK
	if len(failures) > 0 {
		body.Status = "unhealthy"
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(body)
}

func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Readiness fails with 503 naming the alphabetically first unreachable
// dependency
func (h *HealthHandler) Readiness(c *fiber.Ctx) error {
	failures := h.probe(c.UserContext(), readinessProbeTimeout)
	if len(failures) == 0 {
		return c.JSON(fiber.Map{"status": "ready"})
	}

	down := make([]string, 0, len(failures))
	for name := range failures {
		down = append(down, name)
	}
	sort.Strings(down)

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"status": "not ready",
		"reason": down[0] + " unavailable",
	})
}

func (h *HealthHandler) Version(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": h.version,
		"uptime":  time.Since(h.startTime).String(),
	})
}

// RegisterRoutes mounts the root and probe endpoints
func (h *HealthHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.Root)
	app.Get("/healthz", h.Health)
	app.Get("/livez", h.Liveness)
	app.Get("/readyz", h.Readiness)
	app.Get("/version", h.Version)
}
