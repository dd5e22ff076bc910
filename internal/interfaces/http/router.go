// Package http serves the read-only cache API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/internal/interfaces/http/handlers"
	"github.com/turtacn/gem-thermo/internal/interfaces/http/middleware"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.
type RouterConfig struct {
	// Handlers
	CacheHandler  *handlers.CacheHandler
	HealthHandler *handlers.HealthHandler

	// Middleware
	Logger        logging.Logger
	LoggingConfig middleware.LoggingConfig
	Recorder      middleware.RequestRecorder

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	MetricsPath    string

	// Mode is the gin mode: "debug", "release" or "test".
	Mode string
}

// NewRouter constructs the route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()

	// --- Global middleware (applied to every request) ---
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, cfg.LoggingConfig))
	}
	if cfg.Recorder != nil {
		r.Use(middleware.Metrics(cfg.Recorder))
	}

	// --- Probes ---
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsHandler))
	}

	// --- API v1 ---
	if cfg.CacheHandler != nil {
		cfg.CacheHandler.RegisterRoutes(r.Group("/api/v1"))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Code: string(errors.ErrCodeNotFound), Message: "route not found"})
	})
	return r
}

//Personal.AI order the ending
