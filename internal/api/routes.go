// Package api exposes the engine over HTTP with gin.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cxd309/flight-engine/internal/cache"
	"github.com/cxd309/flight-engine/internal/engine"
)

// NewRouter returns a gin engine with recovery, request logging and all routes.
func NewRouter(eng *engine.Engine, store cache.Store, ttl time.Duration, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	SetupRoutes(router, eng, store, ttl, logger)
	return router
}

// SetupRoutes configures all API routes. store may be nil to disable caching.
func SetupRoutes(router *gin.Engine, eng *engine.Engine, store cache.Store, ttl time.Duration, logger *zap.Logger) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", HealthCheck)
		v1.POST("/flight", Simulate(eng, engine.KindFlight, store, ttl, logger))
		v1.POST("/roll", Simulate(eng, engine.KindRoll, store, ttl, logger))
		v1.POST("/batch", Batch(eng))
	}
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("cache", c.Writer.Header().Get(cacheHeader)))
	}
}
