package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/customeros/mailharvest/api/handlers"
	"github.com/customeros/mailharvest/api/middleware"
	"github.com/customeros/mailharvest/config"
	"github.com/customeros/mailharvest/internal/repository"
	"github.com/customeros/mailharvest/internal/tracing"
	"github.com/customeros/mailharvest/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, cfg *config.Config, s *services.Services, repos *repository.Repositories) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	// Add recovery middlewares
	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	// Health check and status endpoints
	r.GET("/health", handlers.HealthCheck)
	r.GET("/status", handlers.Status(s.MailClient))

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-MAILHARVEST-API-KEY",
		ValidAPIKey: cfg.AppConfig.APIKey,
	})

	// API group with version
	api := r.Group("/v1")
	api.Use(apiKeyMiddleware)
	{
		extractions := api.Group("/extractions")
		{
			extractions.POST("", handlers.TriggerExtraction(s.ExtractorService, cfg.ExtractionConfig))
			extractions.GET("", handlers.ListExtractionRuns(repos.ExtractionRunRepository))
			extractions.GET("/latest", handlers.GetLatestExtractionRun(repos.ExtractionRunRepository))
		}

		folders := api.Group("/folders")
		{
			folders.GET("", handlers.ListFolders(s.MailClient))
		}
	}
}
