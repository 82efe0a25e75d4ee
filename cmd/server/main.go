package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/moodmap-backend-go/internal/api"
	"github.com/jengzang/moodmap-backend-go/internal/cache"
	"github.com/jengzang/moodmap-backend-go/internal/config"
	"github.com/jengzang/moodmap-backend-go/internal/logging"
	"github.com/jengzang/moodmap-backend-go/internal/middleware"
	"github.com/jengzang/moodmap-backend-go/internal/overpass"
	"github.com/jengzang/moodmap-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 初始化日志
	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	gin.SetMode(cfg.Server.Mode)

	// 初始化服务
	client := overpass.NewClient(cfg.Overpass)
	placeCache := cache.NewPlaceCache(cfg.Cache.TTL, cfg.Cache.DriftToleranceKm)
	discovery := service.NewDiscoveryService(client, placeCache, cfg.Discovery)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	stop := make(chan struct{})
	go limiter.Run(stop)

	// 初始化路由
	router := api.SetupRouter(cfg, discovery, limiter)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logging.Info().
			Str("port", cfg.Server.Port).
			Str("overpass", cfg.Overpass.Endpoint).
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(stop)

	logging.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Overpass.ClientTimeout())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Server forced to shutdown")
	}
}
