// Package card exposes virtual card routes.
package card

import (
	"github.com/gofiber/fiber/v2"

	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/middleware"
	authsvc "github.com/finpocket/finpocket/pkg/service/auth"
	cardsvc "github.com/finpocket/finpocket/pkg/service/card"
	"github.com/finpocket/finpocket/webapi/common"
)

// Routes registers virtual card endpoints.
//
//   - GET  /api/virtual-cards : Cards on the caller's wallet.
//   - POST /api/virtual-cards : Issue a new card.
func Routes(app *fiber.App, svc *cardsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	grp := app.Group("/api/virtual-cards", middleware.JwtProtected(cfg.Auth.Jwt))
	grp.Get("/", List(svc, authSvc))
	grp.Post("/", Create(svc, authSvc))
}

// List returns the caller's cards.
func List(svc *cardsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		cards, err := svc.List(c.UserContext(), userID)
		if err != nil {
			return common.ProblemFromError(c, "Card listing failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Virtual cards", cards)
	}
}

// Create issues a new card on the caller's wallet.
func Create(svc *cardsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		card, err := svc.Create(c.UserContext(), userID)
		if err != nil {
			return common.ProblemFromError(c, "Card creation failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Virtual card created", card)
	}
}
