package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handyhub/marketplace-system/internal/core/ports"
)

// ctxIdentity builds the caller identity from the claims the Auth middleware
// injected, with a fast-fail check before any service call: a non-empty
// user_id proves the middleware ran. Role is passed through as-is; it stays
// empty until the user completes onboarding, and each service decides what an
// empty role may do.
func ctxIdentity(c echo.Context) (ports.Identity, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role, _ := c.Get("role").(string)
	return ports.Identity{UserID: userID, Role: role}, nil
}
