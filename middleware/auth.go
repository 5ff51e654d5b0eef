// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"tournament-management-system/models"
	"tournament-management-system/services"
	"tournament-management-system/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired validates the Bearer token and attaches the caller's identity
// to the request context.
func AuthRequired(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Printf("🚫 [AUTH] Missing Authorization header for %s", c.Path())
			return utils.ErrorResponse(c, utils.ErrUnauthorized)
		}

		// Parse "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Printf("🚫 [AUTH] Malformed Authorization header for %s", c.Path())
			return utils.ErrorResponse(c, utils.ErrUnauthorized)
		}

		claims, err := tokens.ParseClaims(parts[1])
		if err != nil {
			log.Printf("🚫 [AUTH] Token rejected for %s: %v", c.Path(), err)
			return utils.ErrorResponse(c, utils.ErrUnauthorized)
		}

		// Attach to ctx for handlers
		c.Locals("user_id", claims.UserID)
		c.Locals("user_role", claims.Role)

		return c.Next()
	}
}

// AdminRequired rejects callers that are not administrators. It must run
// after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if role != models.RoleAdmin {
			log.Printf("🚫 [AUTH] Admin access denied for %s", c.Path())
			return utils.ErrorResponse(c, utils.ErrForbidden)
		}
		return c.Next()
	}
}
