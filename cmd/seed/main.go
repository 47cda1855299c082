// Command seed loads demo users, wallets and sample records into the
// configured database. Safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	log "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/finpocket/finpocket/infra/database"
	infrarepository "github.com/finpocket/finpocket/infra/repository"
	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/domain"
	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/money"
	"github.com/finpocket/finpocket/pkg/repository"
	expensesvc "github.com/finpocket/finpocket/pkg/service/expense"
	"github.com/finpocket/finpocket/pkg/utils"
)

const demoPassword = "password123"

type demoUser struct {
	name      string
	email     string
	fiatUSD   float64
	cryptoBTC float64
	withCard  bool
}

var demoUsers = []demoUser{
	{name: "Alice Johnson", email: "alice@demo.com", fiatUSD: 1000, cryptoBTC: 0.5, withCard: true},
	{name: "Bob Smith", email: "bob@demo.com", fiatUSD: 750, cryptoBTC: 0.25},
}

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

	db, err := database.New(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := infrarepository.Migrate(db); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	ctx := context.Background()
	uow := infrarepository.NewUoW(db)
	logger := slog.Default()

	if err := expensesvc.New(uow, logger).SeedCategories(ctx); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	hash, err := utils.HashPassword(demoPassword)
	if err != nil {
		return err
	}

	ids := make(map[string]uuid.UUID)
	walletIDs := make(map[string]uuid.UUID)
	err = uow.Do(ctx, func(uow repository.UnitOfWork) error {
		for _, demo := range demoUsers {
			existing, err := uow.Users().GetByEmail(ctx, demo.email)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if existing != nil {
				logger.Info("demo user exists, skipping", "email", demo.email)
				ids[demo.email] = existing.ID
				w, err := uow.Wallets().GetByUser(ctx, existing.ID)
				if err != nil {
					return err
				}
				walletIDs[demo.email] = w.ID
				continue
			}

			userID, walletID := uuid.New(), uuid.New()
			if err := uow.Users().Create(ctx, dto.UserCreate{
				ID:       userID,
				Name:     demo.name,
				Email:    demo.email,
				Password: hash,
			}); err != nil {
				return err
			}
			if err := uow.Wallets().Create(ctx, dto.WalletCreate{
				ID:     walletID,
				UserID: userID,
			}); err != nil {
				return err
			}

			fiat, err := money.New(demo.fiatUSD, currency.USD)
			if err != nil {
				return err
			}
			btc, err := money.New(demo.cryptoBTC, currency.BTC)
			if err != nil {
				return err
			}
			fiatBal, btcBal := fiat.Amount(), btc.Amount()
			if err := uow.Wallets().Update(ctx, walletID, dto.WalletUpdate{
				FiatBalance:   &fiatBal,
				CryptoBalance: &btcBal,
			}); err != nil {
				return err
			}

			if demo.withCard {
				if err := uow.VirtualCards().Create(ctx, dto.VirtualCardCreate{
					ID:         uuid.New(),
					WalletID:   walletID,
					CardNumber: "4532123456789012",
					ExpiryDate: "12/28",
					CVV:        "123",
				}); err != nil {
					return err
				}
			}

			ids[demo.email] = userID
			walletIDs[demo.email] = walletID
			logger.Info("demo user created", "email", demo.email)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	if err := seedSampleLedger(ctx, uow, ids, walletIDs); err != nil {
		return fmt.Errorf("seed ledger: %w", err)
	}

	logger.Info("demo data created")
	for _, demo := range demoUsers {
		logger.Info("login", "email", demo.email, "password", demoPassword)
	}
	return nil
}

// seedSampleLedger records an initial deposit for Alice and a dinner payment
// from Alice to Bob, mirroring the balances they were seeded with.
func seedSampleLedger(
	ctx context.Context,
	uow repository.UnitOfWork,
	ids, walletIDs map[string]uuid.UUID,
) error {
	alice, bob := ids["alice@demo.com"], ids["bob@demo.com"]
	aliceWallet, bobWallet := walletIDs["alice@demo.com"], walletIDs["bob@demo.com"]
	if alice == uuid.Nil || bob == uuid.Nil {
		return nil
	}

	return uow.Do(ctx, func(uow repository.UnitOfWork) error {
		existing, err := uow.Transactions().CountByUser(ctx, alice, dto.TransactionFilter{})
		if err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		deposit, err := money.New(100, currency.USD)
		if err != nil {
			return err
		}
		if err := uow.Transactions().Create(ctx, dto.TransactionCreate{
			ID:       uuid.New(),
			UserID:   alice,
			WalletID: aliceWallet,
			Amount:   deposit.Amount(),
			Currency: string(currency.USD),
			Type:     dto.TransactionTypeIncome,
			Category: dto.TransactionCategoryWallet,
			Status:   dto.TransactionStatusCompleted,
			Note:     "Initial deposit",
		}); err != nil {
			return err
		}

		dinner, err := money.New(50, currency.USD)
		if err != nil {
			return err
		}
		pair := []dto.TransactionCreate{
			{
				UserID:   alice,
				WalletID: aliceWallet,
				Type:     dto.TransactionTypeExpense,
			},
			{
				UserID:   bob,
				WalletID: bobWallet,
				Type:     dto.TransactionTypeIncome,
			},
		}
		for _, tx := range pair {
			tx.ID = uuid.New()
			tx.Amount = dinner.Amount()
			tx.Currency = string(currency.USD)
			tx.Category = dto.TransactionCategoryP2P
			tx.Status = dto.TransactionStatusCompleted
			tx.SenderID = &alice
			tx.ReceiverID = &bob
			tx.Note = "Payment for dinner"
			if err := uow.Transactions().Create(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
}
