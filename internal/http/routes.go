package http

import (
	"time"

	"warzone/internal/http/handlers"
	"warzone/internal/http/middleware"
	"warzone/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteConfig carries the limits and access lists used by the router.
type RouteConfig struct {
	AdminIDs         []int64
	AllowedOrigin    string
	APIRateLimit     int
	APIRateWindow    time.Duration
	ActionRateLimit  int
	ActionRateWindow time.Duration
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, hub *ws.Hub, cfg RouteConfig) {
	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	v1.POST("/auth", h.Auth)
	v1.GET("/catalog", h.Catalog)
	v1.GET("/leaderboard", h.Leaderboard)

	authed := v1.Group("")
	authed.Use(middleware.JWT(h.Tokens))
	{
		authed.GET("/me", h.Me)
		authed.GET("/inventory", h.Inventory)
		authed.GET("/history", h.History)
	}

	// Action rate limiter (per player, not per IP)
	actions := authed.Group("")
	actions.Use(middleware.ActionRateLimit(cfg.ActionRateLimit, cfg.ActionRateWindow))
	{
		actions.POST("/attack", h.Attack)
		actions.POST("/defense/upgrade", h.UpgradeDefense)
		actions.POST("/miner/claim", h.ClaimMiner)
		actions.POST("/miner/upgrade", h.UpgradeMiner)
		actions.POST("/boxes/:id/open", h.OpenBox)
		actions.POST("/market/buy", h.BuyMissile)
	}

	admin := authed.Group("/admin")
	admin.Use(middleware.Admin(cfg.AdminIDs))
	{
		admin.POST("/grant", h.AdminGrant)
		admin.POST("/missiles", h.AdminGrantMissiles)
		admin.GET("/stats", h.AdminStats)
	}

	// attack notifications
	r.GET("/ws", ws.HandleWS(hub, h.Tokens, cfg.AllowedOrigin))
}
