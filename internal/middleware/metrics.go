package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-seat-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records request count and latency per route template. Routes in
// skip are not observed: a websocket upgrade lives as long as the
// subscriber, and scrapes of /metrics would only measure themselves.
func Metrics(metricsSvc *service.MetricsService, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, route := range skip {
		skipped[route] = struct{}{}
	}
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		if _, ok := skipped[route]; ok {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		if route == "" {
			// Unmatched URLs stay out of the label set.
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, status, duration)
	}
}
