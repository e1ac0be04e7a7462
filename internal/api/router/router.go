package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/denisAlshanov/vidgrab/internal/api/handlers"
	"github.com/denisAlshanov/vidgrab/internal/api/middleware"
	"github.com/denisAlshanov/vidgrab/internal/config"
	"github.com/denisAlshanov/vidgrab/internal/web"
)

type Router struct {
	engine *gin.Engine
	server *http.Server
}

// NewRouter wires the page, API and health routes. ctx bounds background
// work owned by middleware.
func NewRouter(ctx context.Context, cfg *config.Config, videoHandler *handlers.VideoHandler, fileHandler *handlers.FileHandler, healthHandler *handlers.HealthHandler) *Router {
	if cfg.Server.Host == "0.0.0.0" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CorrelationIDMiddleware())

	// Single-page UI
	engine.GET("/", web.Index)

	health := engine.Group("/")
	{
		health.GET("/health", healthHandler.Health)
		health.GET("/ready", healthHandler.Readiness)
		health.GET("/live", healthHandler.Liveness)
	}

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(ctx, &cfg.API))
	{
		video := api.Group("/video")
		{
			video.POST("/info", videoHandler.Info)         // /api/v1/video/info
			video.GET("/download", videoHandler.Download) // /api/v1/video/download (SSE)
		}

		api.GET("/files/:name", fileHandler.GetFile) // /api/v1/files/{name}
	}

	return &Router{
		engine: engine,
		server: &http.Server{
			Addr:    cfg.Addr(),
			Handler: engine,
		},
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (r *Router) Start() error {
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Router) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
