package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/tutora24/internal/app/review"
	"github.com/magabrotheeeer/tutora24/internal/config"
	"github.com/magabrotheeeer/tutora24/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(cfg.Env, os.Stdout)

	logger.Info("starting review consumer", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := review.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize review consumer", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("review consumer stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("review consumer stopped gracefully")
}
