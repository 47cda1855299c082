// Package app builds the application: services, event handler wiring and the
// HTTP surface.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/finpocket/finpocket/infra/cache"
	"github.com/finpocket/finpocket/infra/ratefeed"
	"github.com/finpocket/finpocket/infra/ws"
	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/domain/events"
	"github.com/finpocket/finpocket/pkg/eventbus"
	"github.com/finpocket/finpocket/pkg/money"
	"github.com/finpocket/finpocket/pkg/repository"
	analyticssvc "github.com/finpocket/finpocket/pkg/service/analytics"
	authsvc "github.com/finpocket/finpocket/pkg/service/auth"
	cardsvc "github.com/finpocket/finpocket/pkg/service/card"
	expensesvc "github.com/finpocket/finpocket/pkg/service/expense"
	ledgersvc "github.com/finpocket/finpocket/pkg/service/ledger"
	ratesvc "github.com/finpocket/finpocket/pkg/service/rate"
	usersvc "github.com/finpocket/finpocket/pkg/service/user"
	"github.com/finpocket/finpocket/webapi"
)

// Deps carries the infrastructure the app is built from.
type Deps struct {
	Uow    repository.UnitOfWork
	Bus    eventbus.Bus
	Cache  cache.RateCache
	Feed   ratefeed.Feed
	Logger *slog.Logger
	Config *config.App
}

// App is the assembled application.
type App struct {
	Fiber   *fiber.App
	Rate    *ratesvc.Service
	Expense *expensesvc.Service
	Hub     *ws.Hub

	deps Deps
}

// New builds all services, registers event handlers, and assembles the Fiber
// app.
func New(deps Deps) *App {
	cfg := deps.Config

	rateSvc := ratesvc.New(deps.Feed, deps.Cache, deps.Bus, cfg.RateFeed, deps.Logger)
	ledgerSvc := ledgersvc.New(deps.Uow, deps.Bus, rateSvc, deps.Logger)
	authSvc := authsvc.New(deps.Uow, cfg.Auth.Jwt, deps.Logger)
	userSvc := usersvc.New(deps.Uow, deps.Logger)
	expenseSvc := expensesvc.New(deps.Uow, deps.Logger)
	analyticsSvc := analyticssvc.New(deps.Uow, deps.Logger)
	cardSvc := cardsvc.New(deps.Uow, deps.Logger)

	hub := ws.NewHub(deps.Logger)
	hub.OnPriceRequest = func(ctx context.Context) any {
		return rateSvc.BTCUSD(ctx)
	}
	registerNotifier(deps.Bus, hub)

	fiberApp := webapi.NewApp(webapi.Services{
		Auth:      authSvc,
		Ledger:    ledgerSvc,
		User:      userSvc,
		Expense:   expenseSvc,
		Analytics: analyticsSvc,
		Card:      cardSvc,
		Hub:       hub,
	}, cfg)

	return &App{
		Fiber:   fiberApp,
		Rate:    rateSvc,
		Expense: expenseSvc,
		Hub:     hub,
		deps:    deps,
	}
}

// Start seeds the category catalog, starts rate polling and serves HTTP until
// ctx is cancelled or the listener fails.
func (a *App) Start(ctx context.Context) error {
	if err := a.Expense.SeedCategories(ctx); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	go a.Rate.Start(ctx)

	cfg := a.deps.Config
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	a.deps.Logger.Info("starting server", "env", cfg.Env, "address", addr)

	go func() {
		<-ctx.Done()
		_ = a.Fiber.Shutdown()
	}()
	return a.Fiber.Listen(addr)
}

// registerNotifier forwards ledger and rate events to the websocket hub.
// Handlers run after the originating database transaction has committed.
func registerNotifier(bus eventbus.Bus, hub *ws.Hub) {
	bus.Register(events.EventTypeBalanceUpdated, func(_ context.Context, e eventbus.Event) error {
		ev, ok := e.(events.BalanceUpdated)
		if !ok {
			return nil
		}
		hub.SendToUser(ev.UserID, ws.EventBalanceUpdate, map[string]any{
			"fiat_balance":   money.NewFromSmallestUnit(ev.Wallet.FiatBalance, currency.USD).AmountFloat(),
			"crypto_balance": money.NewFromSmallestUnit(ev.Wallet.CryptoBalance, currency.BTC).AmountFloat(),
		})
		return nil
	})
	bus.Register(events.EventTypeTransactionRecorded, func(_ context.Context, e eventbus.Event) error {
		ev, ok := e.(events.TransactionRecorded)
		if !ok {
			return nil
		}
		hub.SendToUser(ev.UserID, ws.EventTransactionUpdate, ev.Transaction)
		return nil
	})
	bus.Register(events.EventTypeRateUpdated, func(_ context.Context, e eventbus.Event) error {
		ev, ok := e.(events.RateUpdated)
		if !ok {
			return nil
		}
		hub.Broadcast(ws.EventCryptoPriceUpdate, ev)
		return nil
	})
}
