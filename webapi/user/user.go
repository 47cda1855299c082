// Package user exposes user lookup routes.
package user

import (
	"github.com/gofiber/fiber/v2"

	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/middleware"
	authsvc "github.com/finpocket/finpocket/pkg/service/auth"
	usersvc "github.com/finpocket/finpocket/pkg/service/user"
	"github.com/finpocket/finpocket/webapi/common"
)

// Routes registers user endpoints.
//
//   - GET /api/users/search?q=              : Recipient suggestions for the transfer form.
//   - GET /api/transactions/users/search?q= : Same handler under the transactions group.
func Routes(app *fiber.App, svc *usersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Get("/api/users/search", protected, Search(svc, authSvc))
	app.Get("/api/transactions/users/search", protected, Search(svc, authSvc))
}

// Search suggests users matching the query by name or email. The matches are
// display hints; transfers still resolve their recipient by id or exact email.
func Search(svc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		users, err := svc.Search(c.UserContext(), c.Query("q"), userID)
		if err != nil {
			return common.ProblemFromError(c, "Search failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Users", users)
	}
}
