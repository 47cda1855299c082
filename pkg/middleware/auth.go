// Package middleware provides Fiber middleware shared by the route packages.
package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"

	"github.com/finpocket/finpocket/pkg/config"
)

// JwtProtected verifies the bearer token and stores the parsed *jwt.Token in
// c.Locals("user"). Protected handlers read the user id from there.
func JwtProtected(cfg config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			c.Set(fiber.HeaderContentType, "application/problem+json")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"type":   "about:blank",
				"title":  "Unauthorized",
				"status": fiber.StatusUnauthorized,
				"detail": err.Error(),
			})
		},
	})
}
