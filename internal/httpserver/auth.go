package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/summaries/internal/logging"
	authmw "github.com/Skotchmaster/summaries/internal/middleware/auth"
	"github.com/Skotchmaster/summaries/internal/service"
	"github.com/Skotchmaster/summaries/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		l.Warn("login_error", "status", 422, "error", err)
		return err
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transport.TokenPairResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	claims, ok := authmw.Claims(c)
	if !ok {
		return service.ErrMissingToken
	}
	res, err := h.Svc.Refresh(ctx, claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.AccessTokenResponse{AccessToken: res.AccessToken})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	claims, ok := authmw.Claims(c)
	if !ok {
		return service.ErrMissingToken
	}
	if err := h.Svc.Logout(ctx, claims); err != nil {
		return err
	}

	l.Info("successful_logout", "user_id", claims.UserID)
	return c.JSON(http.StatusOK, echo.Map{"detail": "Successfully logged out"})
}
