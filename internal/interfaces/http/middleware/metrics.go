package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/merrysway/storefront/internal/infrastructure/telemetry"
)

// HTTPMetrics records a request counter and latency histogram per route.
// Unmatched routes are recorded as "unmatched" to bound cardinality.
func HTTPMetrics(metrics *telemetry.RequestMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.Record(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
