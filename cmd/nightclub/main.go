// Package main Nightclub Events API
//
// @title           Nightclub Events API
// @version         1.0
// @description     API сайта ночного клуба: афиша, вход администраторов и загрузка изображений

// @host      localhost:8001
// @BasePath  /api/v1

// @securityDefinitions.apikey AdminCookie
// @in cookie
// @name admin_token
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/magabrotheeeer/nightclub-events/internal/app/nightclub"
	"github.com/magabrotheeeer/nightclub-events/internal/config"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.SetupLogger(cfg.Env)
	logger.Debug("config loaded", slog.String("config", cfg.String()))

	if err := run(cfg, logger); err != nil {
		logger.Error("nightclub-events stopped with error", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("nightclub-events stopped gracefully")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting nightclub-events",
		slog.String("env", cfg.Env),
		slog.String("address", cfg.AddressHTTP),
	)

	app, err := nightclub.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
