package app

import (
	"mebelmarket/pkg/logger"
	"mebelmarket/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func NewGinEngine(l *logger.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(
		metrics.GinMiddleware(),
		logger.CorrelationMiddleware(),
		// the stream endpoint is long-lived, logging it per request is noise
		l.GinRequestLogger("/orders/stream", "/metrics"),
		gin.Recovery(),
	)
	return engine
}
