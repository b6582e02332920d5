package main

import (
	"log/slog"
	"os"

	"claimsdash/internal/app"
	"claimsdash/internal/config"
	"claimsdash/internal/infrastructure"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	application := app.New(cfg, logger)
	if err := application.Run(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
