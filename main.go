package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cascade-defensive-pistol/match-engine/app"
	"github.com/cascade-defensive-pistol/match-engine/config"
	"github.com/cascade-defensive-pistol/match-engine/internal/observability/attr"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("Failed to load config", attr.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", attr.Error(err))
		os.Exit(1)
	}

	runErr := application.Run(ctx)

	if err := application.Close(); err != nil {
		logger.Error("Shutdown finished with errors", attr.Error(err))
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("Application stopped", attr.Error(runErr))
		os.Exit(1)
	}
	logger.Info("Application shut down gracefully")
}
