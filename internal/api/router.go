package api

import (
	"context"
	"net/http"
	"time"

	healthHandler "smoothie-catalog/internal/api/handlers/health"
	imagesHandler "smoothie-catalog/internal/api/handlers/images"
	smoothiesHandler "smoothie-catalog/internal/api/handlers/smoothies"
	"smoothie-catalog/internal/api/middleware"
	"smoothie-catalog/internal/core/dataset"
	"smoothie-catalog/internal/core/suggest"
	"smoothie-catalog/internal/infrastructure/config"
	"smoothie-catalog/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// per-request timeout; suggestion requests may walk three providers
	timeoutDuration = 30 * time.Second
	// request body limit (suggestion payloads are tiny)
	maxBodySize = 64 << 10
)

// SetupRouter wires middleware and routes over the loaded catalog and the
// suggestion service.
func SetupRouter(cfg *config.Config, catalog *dataset.Catalog, suggestSvc *suggest.Service) *gin.Engine {
	common.LogInfo("starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// request timeout
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeGatewayTimeout,
			})
			c.Abort()
		}
	})

	health := healthHandler.NewHandler(cfg.App.Version, catalog)
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	{
		smoothies := smoothiesHandler.NewHandler(catalog)
		api.GET("/smoothies", smoothies.List)
		api.GET("/smoothies/:slug", smoothies.Detail)
		api.GET("/meta", smoothies.Meta)

		images := imagesHandler.NewHandler(suggestSvc)
		api.POST("/images/suggest", images.Suggest)
	}

	common.LogInfo("router setup completed",
		zap.Int("catalog_records", catalog.Meta.Total),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", timeoutDuration),
	)

	return router
}
