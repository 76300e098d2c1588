package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"docroute/internal/observability/metrics"
)

// Metrics records request count, latency and in-flight requests keyed by route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		done := m.RequestStarted()
		defer done()

		c.Next()

		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
