package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/metrics"
)

// Metrics records method, matched route, status and latency of each request.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collector.HTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
