package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/davicafu/pagesort/internal/config"
	taskApp "github.com/davicafu/pagesort/internal/task/application"
	taskHttp "github.com/davicafu/pagesort/internal/task/infra/inbound/http"
	"github.com/davicafu/pagesort/pkg/logger"
	sharedCache "github.com/davicafu/pagesort/shared/platform/cache"
	sharedUtils "github.com/davicafu/pagesort/shared/utils"
)

const cacheTTL = 5 * time.Minute

// ---------------- Main ----------------
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)
	log := logger.Logger()
	defer log.Sync() // flush buffers al salir

	ctx := context.Background()

	// ---------------- Store ----------------
	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open task store", zap.String("store", cfg.Store), zap.Error(err))
	}
	defer closeStore()

	// ---------------- Cache ----------------
	cache, closeCache := openCache(ctx, cfg, log)
	defer closeCache()

	// --------------- Servicio --------------
	taskService := taskApp.NewTaskService(repo, cache, log)

	if cfg.SeedDemo > 0 {
		if err := taskService.SeedDemoTasks(ctx, cfg.SeedDemo); err != nil {
			log.Fatal("failed to seed demo tasks", zap.Error(err))
		}
	}

	// ---------------- HTTP ----------------
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	taskHttp.RegisterTaskRoutes(router, taskHttp.NewTaskHandler(taskService))
	taskHttp.RegisterHealthRoute(router, cfg.Store)

	log.Info("Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
		zap.String("store", cfg.Store),
	)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// openCache usa Redis si responde y, si no, una caché en memoria.
func openCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (sharedCache.Cache, func()) {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		log.Warn("Redis no disponible, cache en memoria", zap.Error(err))
		mem := sharedCache.NewMemoryCache(cacheTTL, 3*cacheTTL)
		return mem, mem.Close
	}

	log.Info("Redis conectado, cache habilitado", zap.String("addr", cfg.RedisAddr))
	return sharedCache.NewRedisCache(rdb), func() { _ = rdb.Close() }
}

// requestLogger registra cada petición con zap.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// ping reintenta fn hasta que el store responde.
func ping(ctx context.Context, cfg *config.Config, log *zap.Logger, name string, fn func(context.Context) error) error {
	attempt := 0
	return sharedUtils.Retry(ctx, cfg.ConnectAttempts, cfg.ConnectDelay, func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		err := fn(pingCtx)
		if err != nil {
			log.Warn("store not ready", zap.String("store", name), zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	})
}
