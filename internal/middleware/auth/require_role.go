package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/summaries/internal/service"
)

// RequireRole must run after Bearer. Callers with another role get ErrForbidden.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return service.ErrMissingToken
			}
			if claims.Role != role {
				return service.ErrForbidden
			}
			return next(c)
		}
	}
}
