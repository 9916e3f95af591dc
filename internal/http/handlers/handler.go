package handlers

import (
	"log/slog"
	"time"

	"warzone/internal/auth"
	"warzone/internal/domain"
	"warzone/internal/logger"
	"warzone/internal/service"
)

// Notifier pushes attack notices to connected targets.
type Notifier interface {
	NotifyAttacked(targetID int64, notice domain.TargetNotice) int
}

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	BotToken string
	DevMode  bool
	Now      func() time.Time
}

type Handler struct {
	Svc      *service.EconomyService
	Tokens   *auth.Issuer
	Notifier Notifier

	botToken string
	devMode  bool
	now      func() time.Time
	log      *slog.Logger
}

func NewHandler(svc *service.EconomyService, tokens *auth.Issuer, notifier Notifier, cfg HandlerConfig) *Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		Svc:      svc,
		Tokens:   tokens,
		Notifier: notifier,
		botToken: cfg.BotToken,
		devMode:  cfg.DevMode,
		now:      now,
		log:      logger.Component("http"),
	}
}
