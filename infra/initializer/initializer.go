// Package initializer assembles the infrastructure dependencies the app is
// built from: logger, database, schema, event bus, rate cache and feed.
package initializer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/finpocket/finpocket/app"
	"github.com/finpocket/finpocket/infra/cache"
	"github.com/finpocket/finpocket/infra/database"
	infraeventbus "github.com/finpocket/finpocket/infra/eventbus"
	"github.com/finpocket/finpocket/infra/ratefeed"
	infrarepository "github.com/finpocket/finpocket/infra/repository"
	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/eventbus"
)

// InitializeDependencies builds every infrastructure dependency from config.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	logger := setupLogger(cfg.Log)
	deps := &app.Deps{Logger: logger, Config: cfg}

	db, err := database.New(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := infrarepository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	deps.Uow = infrarepository.NewUoW(db)

	bus, err := initEventBus(cfg.EventBus, logger)
	if err != nil {
		return nil, err
	}
	deps.Bus = bus

	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		deps.Cache = cache.NewRedisRateCache(opt, cfg.Redis.KeyPrefix, logger)
		logger.Info("using redis rate cache")
	} else {
		deps.Cache = cache.NewMemoryCache()
	}

	deps.Feed = ratefeed.NewCoinGeckoFeed(cfg.RateFeed, logger)

	return deps, nil
}

// initEventBus picks the event bus driver. Kafka fans ledger events out to
// external consumers and needs a binary built with -tags kafka.
func initEventBus(cfg config.EventBus, logger *slog.Logger) (eventbus.Bus, error) {
	switch cfg.Driver {
	case "kafka":
		bus, err := infraeventbus.NewWithKafka(logger, strings.Split(cfg.Brokers, ","), cfg.Topic)
		if err != nil {
			return nil, fmt.Errorf("create kafka event bus: %w", err)
		}
		logger.Info("using kafka event bus", "brokers", cfg.Brokers, "topic", cfg.Topic)
		return bus, nil
	default:
		return infraeventbus.NewWithMemory(logger), nil
	}
}
