package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"warzone/internal/auth"
	"warzone/internal/config"
	"warzone/internal/logger"
	"warzone/internal/repository"
	"warzone/internal/service"
)

// seed_player registers a player (idempotent) and prints a session token.
func main() {
	id := flag.Int64("id", 1234567890, "player (telegram) id")
	username := flag.String("username", "testuser", "username")
	fullName := flag.String("name", "Tester", "full name")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	ctx := context.Background()

	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		logger.Fatal("store init failed", "error", err)
	}
	defer store.Close()

	svc := service.NewEconomyService(store, nil, service.Options{})
	p, created, err := svc.RegisterPlayer(ctx, *id, *username, *fullName)
	if err != nil {
		logger.Fatal("register failed", "error", err)
	}
	if created {
		logger.Info("player created", "id", p.ID)
	} else {
		logger.Info("player already exists", "id", p.ID)
	}
	logger.Info("player", "id", p.ID, "username", p.Username, "coin", p.Coin, "gem", p.Gem, "level", p.Level)

	issuer, err := auth.NewIssuer(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		logger.Fatal("jwt init failed", "error", err)
	}
	token, err := issuer.Generate(p.ID)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	fmt.Println(token)
}
