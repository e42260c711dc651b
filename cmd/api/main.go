package main

import (
	"context"
	"log"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/octobees/leads-generator/outreach/internal/app"
	"github.com/octobees/leads-generator/outreach/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zap.L().Sync() //nolint:errcheck

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		zap.L().Fatal("failed to start", zap.Error(err))
	}
	defer application.Close()

	if err := application.Serve(); err != nil {
		zap.L().Error("server stopped", zap.Error(err))
	}
}
