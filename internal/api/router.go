package api

import (
	"path/filepath"

	"github.com/conbrio/conbrio-api/internal/api/handlers"
	apimiddleware "github.com/conbrio/conbrio-api/internal/api/middleware"
	"github.com/conbrio/conbrio-api/internal/config"
	"github.com/conbrio/conbrio-api/internal/metrics"
	"github.com/conbrio/conbrio-api/internal/presets"
	webhandlers "github.com/conbrio/conbrio-api/internal/web/handlers"
	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *config.Config, cloudwatch *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(cloudwatch))

	// CORS for the frontend dev server
	router.Use(apimiddleware.CORS(cfg.CORSAllowedOrigins))

	// Frontend build assets
	router.Static("/static", filepath.Join(cfg.FrontendDir, "static"))

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, presets.Default().StyleNames())
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// Web pages
	webHandler := webhandlers.NewWebHandler(cfg.FrontendDir, version)
	router.GET("/", webHandler.Home)
	router.GET("/app", webHandler.App)

	// Exercises
	api := router.Group("/api")
	{
		exerciseHandler := handlers.NewExerciseHandler(cfg, cloudwatch)
		api.GET("/exercise/", exerciseHandler.RandomNote)
		api.GET("/chromatic/", exerciseHandler.Chromatic)
		api.GET("/scale/", exerciseHandler.Scale)
		api.GET("/scale/midi", exerciseHandler.ScaleMIDI)
		api.GET("/arpeggio/", exerciseHandler.Arpeggio)
		api.GET("/arpeggio/midi", exerciseHandler.ArpeggioMIDI)
		api.GET("/chords/", exerciseHandler.Chords)
	}

	return router
}
