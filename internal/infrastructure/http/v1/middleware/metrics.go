package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tourops/internal/observability/metrics"
)

// Metrics observes request latency per method, route and status. Uses the
// route template (e.g. /api/v1/bookings/:id) to keep label cardinality low.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
