// Package socket upgrades authenticated clients onto the push hub.
package socket

import (
	"fmt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/finpocket/finpocket/infra/ws"
	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/webapi/common"
)

// Routes registers the websocket endpoint.
//
//   - GET /ws?token= : Upgrade to the push stream. Browsers cannot set an
//     Authorization header on a websocket handshake, so the token rides in
//     the query string.
func Routes(app *fiber.App, hub *ws.Hub, cfg *config.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		userID, err := userIDFromToken(c.Query("token"), cfg.Auth.Jwt.Secret)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("user_id").(uuid.UUID)
		if !ok {
			_ = conn.Close()
			return
		}
		hub.Serve(conn, userID)
	}))
}

func userIDFromToken(raw, secret string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("missing token")
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid claims")
	}
	rawID, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("missing user id claim")
	}
	return uuid.Parse(rawID)
}
