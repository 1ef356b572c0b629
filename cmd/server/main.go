package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/baophung020394/game-family-traditional/internal/config"
	"github.com/baophung020394/game-family-traditional/internal/httpapi"
	"github.com/baophung020394/game-family-traditional/internal/hub"
	"github.com/baophung020394/game-family-traditional/internal/room"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	h := hub.NewHub(ctx, hub.Config{
		Room: room.Config{
			TurnTimeout: cfg.TurnTimeout,
			ResumeGrace: cfg.ResumeGrace,
		},
		IdleTTL: cfg.RoomIdleTTL,
	}, logger)

	handler := httpapi.SetupRoutes(h, logger)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
