package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/parking-ticket-service/pkg/util"
)

// RequireAdmin ensures the authenticated principal holds the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.IsAdmin() {
			return apperrors.NewForbidden("Access denied. Admin role required.")
		}
		return c.Next()
	}
}
