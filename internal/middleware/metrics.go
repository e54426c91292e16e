package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const unmatchedRoute = "unmatched"

var (
	requestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "phee_operations",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "phee_operations",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method", "route"})

	// Transaction pages and audit trails can be large, so the top buckets
	// reach into megabytes.
	responseBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "phee_operations",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response body size.",
		Buckets:   prometheus.ExponentialBuckets(128, 8, 7),
	}, []string{"method", "route"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "phee_operations",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})
)

// Metrics records Prometheus request metrics labelled by route pattern.
// Requests matched by skip are passed through untouched; a nil skip
// instruments everything.
func Metrics(skip func(*fiber.Ctx) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skip != nil && skip(c) {
			return c.Next()
		}

		inFlight.Inc()
		defer inFlight.Dec()

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = errorStatus(err)
		}
		method, route := c.Method(), routePattern(c)

		requestCount.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		requestLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		responseBytes.WithLabelValues(method, route).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// routePattern keeps label cardinality bounded: path parameters stay in
// their placeholder form and misses share one label.
func routePattern(c *fiber.Ctx) string {
	route := c.Route()
	if route == nil || route.Path == "" || (route.Path == "/" && c.Path() != "/") {
		return unmatchedRoute
	}
	return route.Path
}
