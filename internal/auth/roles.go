package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/hostdesk/hosting-service/pkg/util"
)

// Role describes what the authenticated gateway user may do.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// RequireAuthenticated ensures a principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the principal carries the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role != RoleAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
