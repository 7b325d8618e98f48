package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

// RequireRole guards a route so only the listed marketplace roles pass. The
// rejection surfaces as domain.ErrForbidden, which the central error handler
// renders the same way as any other authorization failure.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return fmt.Errorf("role %q not permitted: %w", role, domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
