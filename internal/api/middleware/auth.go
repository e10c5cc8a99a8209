package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// WalletLocalKey is where the authenticated wallet address is stored on the
// request context.
const WalletLocalKey = "walletAddress"

// RequireWallet returns a Fiber middleware enforcing a Bearer session token
// issued by the auth handlers. The token subject is the wallet address used
// for all role gating downstream.
func RequireWallet(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var token string
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}
		if token == "" {
			c.Set("WWW-Authenticate", `Bearer realm="escrowpad"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid Bearer token",
			})
		}

		claims := &jwt.RegisteredClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !parsed.Valid || claims.Subject == "" {
			c.Set("WWW-Authenticate", `Bearer realm="escrowpad"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(WalletLocalKey, claims.Subject)
		return c.Next()
	}
}

// CallerWallet retrieves the authenticated wallet address from the request
// context. Empty when the route skipped RequireWallet.
func CallerWallet(c *fiber.Ctx) string {
	if addr, ok := c.Locals(WalletLocalKey).(string); ok {
		return addr
	}
	return ""
}
