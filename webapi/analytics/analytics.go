// Package analytics exposes dashboard aggregate routes.
package analytics

import (
	"github.com/gofiber/fiber/v2"

	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/middleware"
	analyticssvc "github.com/finpocket/finpocket/pkg/service/analytics"
	authsvc "github.com/finpocket/finpocket/pkg/service/auth"
	"github.com/finpocket/finpocket/webapi/common"
)

// Routes registers analytics endpoints.
//
//   - GET /api/analytics/summary     : Income, expense and net totals.
//   - GET /api/analytics/monthly     : Net movement per month, oldest first.
//   - GET /api/analytics/by-category : Tracked expense totals per category.
func Routes(app *fiber.App, svc *analyticssvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	grp := app.Group("/api/analytics", middleware.JwtProtected(cfg.Auth.Jwt))
	grp.Get("/summary", Summary(svc, authSvc))
	grp.Get("/monthly", Monthly(svc, authSvc))
	grp.Get("/by-category", ByCategory(svc, authSvc))
}

// Summary returns the caller's ledger totals.
func Summary(svc *analyticssvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		summary, err := svc.Summary(c.UserContext(), userID)
		if err != nil {
			return common.ProblemFromError(c, "Summary failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Summary", summary)
	}
}

// Monthly returns net movement per month.
func Monthly(svc *analyticssvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		totals, err := svc.Monthly(c.UserContext(), userID)
		if err != nil {
			return common.ProblemFromError(c, "Monthly totals failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Monthly totals", totals)
	}
}

// ByCategory returns tracked expense totals per category.
func ByCategory(svc *analyticssvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		totals, err := svc.ByCategory(c.UserContext(), userID)
		if err != nil {
			return common.ProblemFromError(c, "Category totals failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Category totals", totals)
	}
}
