package api

import (
	"deal-notifier-go/pkg/api/handlers"
	"deal-notifier-go/pkg/api/middleware"
	"deal-notifier-go/pkg/config"
	"deal-notifier-go/pkg/services"

	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config, replay *services.ReplayService, settings *services.MemorySettings) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// Notifier routes
	router.GET(cfg.Server.StreamPath, handlers.StreamRun(replay))
	router.GET(cfg.Server.SettingsPath, handlers.GetSettings(settings))
	router.POST(cfg.Server.SettingsPath, handlers.SaveSettings(settings))

	return router
}
