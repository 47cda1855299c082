// Package webapi assembles the Fiber application from the route packages.
package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"github.com/finpocket/finpocket/infra/ws"
	"github.com/finpocket/finpocket/pkg/config"
	analyticssvc "github.com/finpocket/finpocket/pkg/service/analytics"
	authsvc "github.com/finpocket/finpocket/pkg/service/auth"
	cardsvc "github.com/finpocket/finpocket/pkg/service/card"
	expensesvc "github.com/finpocket/finpocket/pkg/service/expense"
	ledgersvc "github.com/finpocket/finpocket/pkg/service/ledger"
	usersvc "github.com/finpocket/finpocket/pkg/service/user"
	"github.com/finpocket/finpocket/webapi/analytics"
	"github.com/finpocket/finpocket/webapi/auth"
	"github.com/finpocket/finpocket/webapi/card"
	"github.com/finpocket/finpocket/webapi/common"
	"github.com/finpocket/finpocket/webapi/expense"
	"github.com/finpocket/finpocket/webapi/socket"
	"github.com/finpocket/finpocket/webapi/user"
	"github.com/finpocket/finpocket/webapi/wallet"
)

// Services bundles everything the route packages need.
type Services struct {
	Auth      *authsvc.Service
	Ledger    *ledgersvc.Service
	User      *usersvc.Service
	Expense   *expensesvc.Service
	Analytics *analyticssvc.Service
	Card      *cardsvc.Service
	Hub       *ws.Hub
}

// NewApp builds the Fiber app with all middleware and routes registered.
func NewApp(svcs Services, cfg *config.App) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "finpocket",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Cors.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			// Honor the proxy header so every client behind it is not one bucket.
			if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
				return forwarded
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests,
				"Too Many Requests", "Rate limit exceeded")
		},
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "finpocket"})
	})
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth.Routes(app, svcs.Auth, cfg)
	wallet.Routes(app, svcs.Ledger, svcs.Auth, cfg)
	user.Routes(app, svcs.User, svcs.Auth, cfg)
	expense.Routes(app, svcs.Expense, svcs.Auth, cfg)
	analytics.Routes(app, svcs.Analytics, svcs.Auth, cfg)
	card.Routes(app, svcs.Card, svcs.Auth, cfg)
	socket.Routes(app, svcs.Hub, cfg)

	return app
}
