package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yourusername/clipcourier/api/handlers"
	"github.com/yourusername/clipcourier/api/middleware"
	"github.com/yourusername/clipcourier/internal/app"
)

// SetupRouter sets up the ops HTTP router: health, metrics and job stats.
func SetupRouter(stats *app.Stats, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	healthHandler := handlers.NewHealthHandler()
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		statsHandler := handlers.NewStatsHandler(stats)
		v1.GET("/stats", statsHandler.GetStats)
	}

	return router
}
