package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"warzone/internal/auth"
	"warzone/internal/cache"
	"warzone/internal/catalog"
	"warzone/internal/config"
	httpServer "warzone/internal/http"
	"warzone/internal/http/handlers"
	"warzone/internal/http/middleware"
	"warzone/internal/logger"
	"warzone/internal/repository"
	"warzone/internal/service"
	"warzone/internal/ws"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		logger.Fatal("store init failed", "driver", cfg.StoreDriver, "error", err)
	}
	defer store.Close()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("catalog load failed", "path", cfg.CatalogPath, "error", err)
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		logger.Fatal("jwt init failed", "error", err)
	}

	opts := service.Options{MaxAttempts: cfg.StoreMaxAttempts}
	var cachePinger handlers.Pinger
	if cfg.RedisAddr != "" {
		lb, err := cache.NewLeaderboard(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// без редиса работаем дальше: лимиты открыты, лидерборд из стора
			logger.Warn("redis unavailable, continuing without it", "error", err)
		} else {
			defer lb.Close()
			opts.Ranking = lb
			cachePinger = lb
			middleware.UseRedis(lb.Client())
		}
	}

	svc := service.NewEconomyService(store, cat, opts)
	if err := svc.WarmRanking(ctx, 100); err != nil {
		logger.Warn("ranking warm-up failed", "error", err)
	}

	hub := ws.NewHub()
	h := handlers.NewHandler(svc, issuer, hub, handlers.HandlerConfig{
		BotToken: cfg.BotToken,
		DevMode:  cfg.DevMode,
	})
	health := handlers.NewHealthHandler(store, cachePinger, version)

	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, h, health, hub, httpServer.RouteConfig{
		AdminIDs:         cfg.AdminTelegramIDs,
		AllowedOrigin:    cfg.AllowedOrigin,
		APIRateLimit:     cfg.APIRateLimit,
		APIRateWindow:    cfg.APIRateWindow,
		ActionRateLimit:  cfg.ActionRateLimit,
		ActionRateWindow: cfg.ActionRateWindow,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server started", "port", cfg.AppPort, "store", cfg.StoreDriver, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		return
	}
	logger.Info("server exited")
}
