// Package wallet exposes the wallet balance and ledger mutation routes.
package wallet

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/middleware"
	"github.com/finpocket/finpocket/pkg/money"
	authsvc "github.com/finpocket/finpocket/pkg/service/auth"
	ledgersvc "github.com/finpocket/finpocket/pkg/service/ledger"
	"github.com/finpocket/finpocket/webapi/common"
)

// Routes registers wallet and ledger endpoints. All routes require a token.
//
//   - GET  /api/wallet              : Current balances.
//   - POST /api/wallet/deposit      : Credit the wallet.
//   - POST /api/wallet/withdraw     : Debit the wallet.
//   - POST /api/wallet/transfer     : Send money to another user.
//   - GET  /api/wallet/transactions : Ledger records, newest first.
//   - POST /api/transfer            : Alias of /api/wallet/transfer.
//   - POST /api/transactions/transfer : Same alias under the transactions group.
//   - GET  /api/transactions        : Alias of /api/wallet/transactions.
//   - POST /api/convert             : Exchange USD and BTC inside the wallet.
func Routes(app *fiber.App, svc *ledgersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	grp := app.Group("/api/wallet", protected)
	grp.Get("/", GetWallet(svc, authSvc))
	grp.Post("/deposit", Deposit(svc, authSvc))
	grp.Post("/withdraw", Withdraw(svc, authSvc))
	grp.Post("/transfer", Transfer(svc, authSvc))
	grp.Get("/transactions", Transactions(svc, authSvc))

	app.Post("/api/transfer", protected, Transfer(svc, authSvc))
	app.Post("/api/transactions/transfer", protected, Transfer(svc, authSvc))
	app.Get("/api/transactions", protected, Transactions(svc, authSvc))
	app.Post("/api/convert", protected, Convert(svc, authSvc))
}

// GetWallet returns the caller's balances.
func GetWallet(svc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		wallet, err := svc.GetWallet(c.UserContext(), userID)
		if err != nil {
			return common.ProblemFromError(c, "Wallet lookup failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Wallet", toWalletResponse(wallet))
	}
}

// Deposit credits the caller's wallet.
func Deposit(svc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		amount, err := parseAmount(input.Amount, input.Currency)
		if err != nil {
			return common.ProblemFromError(c, "Invalid amount", err)
		}
		tx, err := svc.Deposit(c.UserContext(), userID, amount)
		if err != nil {
			return common.ProblemFromError(c, "Deposit failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Deposit successful", tx)
	}
}

// Withdraw debits the caller's wallet.
func Withdraw(svc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		amount, err := parseAmount(input.Amount, input.Currency)
		if err != nil {
			return common.ProblemFromError(c, "Invalid amount", err)
		}
		tx, err := svc.Withdraw(c.UserContext(), userID, amount)
		if err != nil {
			return common.ProblemFromError(c, "Withdrawal failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Withdrawal successful", tx)
	}
}

// Transfer sends money to another user named by id or exact email.
func Transfer(svc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		amount, err := parseAmount(input.Amount, input.Currency)
		if err != nil {
			return common.ProblemFromError(c, "Invalid amount", err)
		}
		tx, err := svc.Transfer(c.UserContext(), userID, input.Recipient, amount, input.Note)
		if err != nil {
			return common.ProblemFromError(c, "Transfer failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer successful", tx)
	}
}

// Convert exchanges between USD and BTC at the current rate.
func Convert(svc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[ConvertRequest](c)
		if input == nil {
			return err
		}
		from, err := parseAmount(input.Amount, input.From)
		if err != nil {
			return common.ProblemFromError(c, "Invalid amount", err)
		}
		to, err := currency.Parse(input.To)
		if err != nil {
			return common.ProblemFromError(c, "Invalid currency", err)
		}
		tx, err := svc.Convert(c.UserContext(), userID, from, to)
		if err != nil {
			return common.ProblemFromError(c, "Conversion failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Conversion successful", tx)
	}
}

// Transactions lists the caller's ledger records with filter and pagination
// query parameters.
func Transactions(svc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}

		filter := dto.TransactionFilter{
			Type:     c.Query("type"),
			Category: c.Query("category"),
			Limit:    c.QueryInt("limit", 20),
			Offset:   c.QueryInt("offset", 0),
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse(time.RFC3339, from)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid from date", err.Error())
			}
			filter.From = &t
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse(time.RFC3339, to)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid to date", err.Error())
			}
			filter.To = &t
		}
		if cursor := c.Query("cursor"); cursor != "" {
			id, err := uuid.Parse(cursor)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid cursor", err.Error())
			}
			filter.Cursor = &id
		}

		txs, total, err := svc.ListTransactions(c.UserContext(), userID, filter)
		if err != nil {
			return common.ProblemFromError(c, "Transaction listing failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions", fiber.Map{
			"transactions": txs,
			"total":        total,
		})
	}
}

func parseAmount(amount float64, code string) (money.Money, error) {
	cur, err := currency.Parse(code)
	if err != nil {
		return money.Money{}, err
	}
	return money.New(amount, cur)
}

func toWalletResponse(w *dto.WalletRead) WalletResponse {
	return WalletResponse{
		ID:            w.ID.String(),
		UserID:        w.UserID.String(),
		FiatBalance:   money.NewFromSmallestUnit(w.FiatBalance, currency.USD).AmountFloat(),
		CryptoBalance: money.NewFromSmallestUnit(w.CryptoBalance, currency.BTC).AmountFloat(),
	}
}
