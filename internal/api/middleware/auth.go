package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Auth validates the bearer JWT and injects the verified identity claims into
// the request context under "user_id", "role" and "email".
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			// The subject is the user id. Role may legitimately be empty:
			// registered users carry no role until they complete onboarding.
			c.Set("user_id", claims["sub"])
			c.Set("role", claims["role"])
			c.Set("email", claims["email"])

			return next(c)
		}
	}
}
