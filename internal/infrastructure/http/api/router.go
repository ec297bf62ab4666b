// Package api provides the HTTP API surface of the service.
package api

import (
	"github.com/gin-gonic/gin"

	"openflag/internal/domain/flags"
	"openflag/internal/infrastructure/http/api/handlers"
	"openflag/internal/infrastructure/http/api/middleware"
	"openflag/internal/infrastructure/storage/postgres"
	"openflag/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// FlagService backs the /api/flags endpoints.
	FlagService *flags.Service

	// Pool is the database pool, used by readiness checks. May be nil.
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// CORSOrigins lists allowed cross-origin callers. Empty disables CORS.
	CORSOrigins []string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	router.GET("/health", healthHandler.Live)
	router.GET("/health/ready", healthHandler.Ready)

	flagHandler := handlers.NewFlagHandler(handlers.NewBaseHandler(), cfg.FlagService)
	api := router.Group("/api")
	{
		flagsGroup := api.Group("/flags")
		{
			flagsGroup.POST("", flagHandler.Create)
			flagsGroup.GET("", flagHandler.List)
			flagsGroup.GET("/key/:key", flagHandler.GetByKey)
			flagsGroup.GET("/:id", flagHandler.GetByID)
			flagsGroup.PUT("/:id", flagHandler.Update)
			flagsGroup.DELETE("/:id", flagHandler.Delete)
		}
	}

	return router
}
