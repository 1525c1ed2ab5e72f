package logger

import (
	"time"

	"mebelmarket/pkg/correlation"

	"github.com/gin-gonic/gin"
)

// CorrelationMiddleware extracts X-Correlation-ID from request header or generates a new one.
// It stores the ID in the request context and adds it to the response header.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		corrID := c.GetHeader(correlation.HeaderName)
		if corrID == "" {
			corrID = correlation.NewID()
		}

		// Store in request context (accessible via c.Request.Context())
		ctx := correlation.WithID(c.Request.Context(), corrID)
		c.Request = c.Request.WithContext(ctx)

		// Add to response header
		c.Header(correlation.HeaderName, corrID)

		c.Next()
	}
}

// GinRequestLogger logs every HTTP request with method, path, status and latency.
// Streaming endpoints are skipped so a long-lived connection does not hold the log line open.
func (l *Logger) GinRequestLogger(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.FullPath()]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		l.InfoCtx(c.Request.Context(), "HTTP request: method=%s path=%s query=%s status=%d duration=%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Request.URL.RawQuery,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
