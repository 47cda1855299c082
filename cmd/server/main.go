package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	log "github.com/charmbracelet/log"

	"github.com/finpocket/finpocket/app"
	"github.com/finpocket/finpocket/infra/initializer"
	"github.com/finpocket/finpocket/pkg/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(slog.Default(), ".env")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.New(*deps).Start(ctx)
}
