package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/digital-profile/internal/pkg/metrics"
)

// Metrics - request counter and latency histogram labelled by route pattern
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		// route pattern keeps label cardinality bounded
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}

		code := strconv.Itoa(status)
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), path, code).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		return err
	}
}
