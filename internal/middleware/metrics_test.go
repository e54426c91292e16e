package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop(), false)})
	app.Use(Metrics(HealthSkipper))
	app.Get("/transaction/:workflowInstanceKey", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/tasks", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadRequest, "missing") })

	okCounter := requestCount.WithLabelValues("GET", "/transaction/:workflowInstanceKey", "200")
	badCounter := requestCount.WithLabelValues("GET", "/tasks", "400")
	okBefore := testutil.ToFloat64(okCounter)
	badBefore := testutil.ToFloat64(badCounter)

	for _, path := range []string{"/transaction/1", "/transaction/2", "/tasks"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, okBefore+2, testutil.ToFloat64(okCounter))
	assert.Equal(t, badBefore+1, testutil.ToFloat64(badCounter))
}

func TestMetricsMiddleware_SkipsProbes(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics(HealthSkipper))
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	counter := requestCount.WithLabelValues("GET", "/healthz", "200")
	before := testutil.ToFloat64(counter)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)

	assert.Equal(t, before, testutil.ToFloat64(counter))
}

func TestMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics(nil))

	counter := requestCount.WithLabelValues("GET", unmatchedRoute, "404")
	before := testutil.ToFloat64(counter)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/no/such/route/42", nil))
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
