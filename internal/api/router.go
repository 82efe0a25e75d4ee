package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jengzang/moodmap-backend-go/internal/config"
	"github.com/jengzang/moodmap-backend-go/internal/handler"
	"github.com/jengzang/moodmap-backend-go/internal/middleware"
	"github.com/jengzang/moodmap-backend-go/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, discovery *service.DiscoveryService, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", middleware.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "MoodMap Backend API is running",
		})
	})

	// Prometheus 指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	placesHandler := handler.NewPlacesHandler(discovery)
	moodHandler := handler.NewMoodHandler(discovery)
	cacheHandler := handler.NewCacheHandler(discovery)

	// API 路由组
	api := r.Group("/api/v1")
	if limiter != nil && cfg.RateLimit.Requests > 0 {
		api.Use(middleware.RateLimit(limiter))
	}
	{
		// 心情列表
		api.GET("/moods", moodHandler.ListMoods)

		// 地点发现
		api.GET("/places", placesHandler.GetPlaces)

		// 缓存管理
		cache := api.Group("/cache")
		{
			cache.GET("/stats", cacheHandler.GetStats)
			cache.DELETE("", cacheHandler.Clear)
		}
	}

	return r
}
