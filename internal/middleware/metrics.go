package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightoak/homeschool-api/internal/service"
)

// Metrics records per-request duration and counts. Paths are labelled by the
// matched route template so path parameters do not explode the cardinality,
// and the scrape endpoint itself is not measured.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			// Unmatched routes collapse into one label.
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
