package auth

import (
	"context"
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/summaries/internal/service"
	"github.com/Skotchmaster/summaries/internal/tokens"
)

const claimsKey = "claims"

// TokenCheck turns a raw bearer token into verified claims.
type TokenCheck func(ctx context.Context, raw string, want tokens.Type) (*tokens.Claims, error)

// Bearer guards a route with an "Authorization: Bearer <token>" header
// holding a token of type want. Verified claims are stored on the context.
func Bearer(check TokenCheck, want tokens.Type) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (any, error) {
			return check(c.Request().Context(), raw, want)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var se *service.Error
			if errors.As(err, &se) {
				return se
			}
			return service.ErrMissingToken
		},
	})
}

// Claims returns the claims stored by Bearer.
func Claims(c echo.Context) (*tokens.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*tokens.Claims)
	return claims, ok
}

// Identity returns the principal of the request, or ErrUnauthorized when
// the route is not guarded.
func Identity(c echo.Context) (tokens.Identity, error) {
	claims, ok := Claims(c)
	if !ok {
		return tokens.Identity{}, service.ErrMissingToken
	}
	return claims.Identity(), nil
}
