package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maps-proxy/internal/metrics"
)

// Metrics - counts served requests by route template
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		handleChainError(c, c.Next())

		status := c.Response().StatusCode()

		// unknown paths would otherwise blow up label cardinality
		route := "unmatched"
		if status != fiber.StatusNotFound {
			route = c.Route().Path
		}

		m.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()

		return nil
	}
}
