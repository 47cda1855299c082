// Package expense exposes expense tracking routes.
package expense

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/middleware"
	authsvc "github.com/finpocket/finpocket/pkg/service/auth"
	expensesvc "github.com/finpocket/finpocket/pkg/service/expense"
	"github.com/finpocket/finpocket/webapi/common"
)

// CreateExpenseRequest records a spending entry against a catalog category.
// Date is optional RFC 3339; it defaults to now.
type CreateExpenseRequest struct {
	Description string  `json:"description" validate:"required,max=255"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Date        string  `json:"date" validate:"omitempty"`
}

// Routes registers expense endpoints.
//
//   - GET  /api/expenses            : The caller's expenses, newest first.
//   - POST /api/expenses            : Record an expense.
//   - GET  /api/expenses/categories : The category catalog.
func Routes(app *fiber.App, svc *expensesvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	grp := app.Group("/api/expenses", middleware.JwtProtected(cfg.Auth.Jwt))
	grp.Get("/", List(svc, authSvc))
	grp.Post("/", Create(svc, authSvc))
	grp.Get("/categories", Categories(svc))
}

// List returns the caller's expenses.
func List(svc *expensesvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		expenses, err := svc.List(c.UserContext(), userID)
		if err != nil {
			return common.ProblemFromError(c, "Expense listing failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Expenses", expenses)
	}
}

// Create records an expense.
func Create(svc *expensesvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[CreateExpenseRequest](c)
		if input == nil {
			return err
		}
		var date time.Time
		if input.Date != "" {
			date, err = time.Parse(time.RFC3339, input.Date)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid date", err.Error())
			}
		}
		expense, err := svc.Add(c.UserContext(), userID, input.Description, input.Amount, input.Category, date)
		if err != nil {
			return common.ProblemFromError(c, "Expense creation failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Expense recorded", expense)
	}
}

// Categories lists the category catalog.
func Categories(svc *expensesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats, err := svc.Categories(c.UserContext())
		if err != nil {
			return common.ProblemFromError(c, "Category listing failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Categories", cats)
	}
}
