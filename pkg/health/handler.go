package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LivenessHandler answers 200 whenever the process is up; it checks nothing.
func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": StatusUp})
	}
}

// ReadinessHandler runs the registry's checks under the given timeout and
// answers 503 with per-check detail when any backing service is down.
func ReadinessHandler(registry *Registry, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		response := registry.CheckAll(ctx)
		status := http.StatusOK
		if response.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, response)
	}
}
