package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/titan-observatory/pkg/util/errorutil"
)

// RequireAdmin ensures the authenticated caller is in the admin allow-set.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.User.IsAdmin {
			return apperrors.NewForbidden("ADMIN_REQUIRED", "admin access required")
		}
		return c.Next()
	}
}
