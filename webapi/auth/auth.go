// Package auth exposes registration, login and session routes.
package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/middleware"
	authsvc "github.com/finpocket/finpocket/pkg/service/auth"
	"github.com/finpocket/finpocket/webapi/common"
)

// Routes registers authentication endpoints. They live under /auth; the same
// handlers are also mounted under /api/auth for clients that prefix
// everything with /api.
//
//   - POST /auth/register : Create a user and their wallet.
//   - POST /auth/login    : Exchange credentials for a JWT.
//   - GET  /auth/me       : Return the authenticated user.
//   - POST /auth/refresh  : Issue a fresh token for the current user.
//   - POST /auth/logout   : Stateless logout acknowledgement.
func Routes(app *fiber.App, svc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	for _, prefix := range []string{"/auth", "/api/auth"} {
		grp := app.Group(prefix)
		grp.Post("/register", Register(svc))
		grp.Post("/login", Login(svc))
		grp.Get("/me", protected, Me(svc))
		grp.Post("/refresh", protected, Refresh(svc))
		grp.Post("/logout", protected, Logout())
	}
}

// Register creates a user and returns a token so the client is signed in
// immediately.
func Register(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterRequest](c)
		if input == nil {
			return err
		}
		user, err := svc.Register(c.UserContext(), input.Name, input.Email, input.Password)
		if err != nil {
			return common.ProblemFromError(c, "Registration failed", err)
		}
		token, err := svc.GenerateToken(user)
		if err != nil {
			return common.ProblemFromError(c, "Registration failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User registered", fiber.Map{
			"user":  user,
			"token": token,
		})
	}
}

// Login authenticates and returns a token.
func Login(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginRequest](c)
		if input == nil {
			return err
		}
		user, err := svc.Login(c.UserContext(), input.Email, input.Password)
		if err != nil {
			return common.ProblemFromError(c, "Login failed", err)
		}
		token, err := svc.GenerateToken(user)
		if err != nil {
			return common.ProblemFromError(c, "Login failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Login successful", fiber.Map{
			"user":  user,
			"token": token,
		})
	}
}

// Me returns the authenticated user's profile.
func Me(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, svc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		user, err := svc.GetUser(c.UserContext(), userID)
		if err != nil {
			return common.ProblemFromError(c, "User lookup failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Current user", user)
	}
}

// Refresh issues a new token for the already authenticated user.
func Refresh(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, svc)
		if err != nil {
			return common.ProblemFromError(c, "Unauthorized", err)
		}
		user, err := svc.GetUser(c.UserContext(), userID)
		if err != nil {
			return common.ProblemFromError(c, "User lookup failed", err)
		}
		token, err := svc.GenerateToken(user)
		if err != nil {
			return common.ProblemFromError(c, "Token refresh failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Token refreshed", fiber.Map{
			"token": token,
		})
	}
}

// Logout acknowledges logout. Tokens are stateless so the client discards
// its copy; there is no server-side session to clear.
func Logout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Logged out", nil)
	}
}
