package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/tweetfeed/config"
	"github.com/d60-Lab/tweetfeed/internal/api"
	"github.com/d60-Lab/tweetfeed/internal/api/handler"
	"github.com/d60-Lab/tweetfeed/internal/repository"
	"github.com/d60-Lab/tweetfeed/internal/service"
	"github.com/d60-Lab/tweetfeed/pkg/cache"
	"github.com/d60-Lab/tweetfeed/pkg/database"
	"github.com/d60-Lab/tweetfeed/pkg/logger"
	"github.com/d60-Lab/tweetfeed/pkg/monitor"
	"github.com/d60-Lab/tweetfeed/pkg/tracing"
)

// @title tweetfeed API
// @version 1.0
// @description 推文、点赞与视频链接渲染的演示服务
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	sentryOn, flush, err := monitor.InitSentry(cfg.Sentry)
	if err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	opts := []service.Option{service.WithMaxContentLength(cfg.Feed.MaxContentLength)}
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("connect redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer client.Close()
		opts = append(opts, service.WithCache(cache.NewRedisFeedCache(client, cfg.Redis.TTL)))
		logger.Info("feed cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
	}

	feedService := service.NewFeedService(
		repository.NewPostRepository(db),
		repository.NewLikeRepository(db),
		opts...,
	)
	h := handler.NewHandler(feedService, db)

	router, err := api.NewRouter(cfg, h, api.Options{Sentry: sentryOn, Tracing: cfg.Tracing.Enabled})
	if err != nil {
		logger.Fatal("build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("db", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
