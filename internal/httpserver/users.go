package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/summaries/internal/logging"
	authmw "github.com/Skotchmaster/summaries/internal/middleware/auth"
	"github.com/Skotchmaster/summaries/internal/service"
	"github.com/Skotchmaster/summaries/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Me(c echo.Context) error {
	actor, err := authmw.Identity(c)
	if err != nil {
		return err
	}
	user, err := h.Svc.Get(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(user))
}

func (h *UserHTTP) List(c echo.Context) error {
	var q transport.ListQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	users, err := h.Svc.List(c.Request().Context(), limitOrDefault(q.Limit))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserList(users))
}

func (h *UserHTTP) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(user))
}

func (h *UserHTTP) Summaries(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.Svc.Summaries(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewSummaryList(list))
}

func (h *UserHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_create")

	var req transport.CreateUserRequest
	if err := bind(c, &req); err != nil {
		l.Warn("create_user_error", "status", 422, "error", err)
		return err
	}
	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.NewUserResponse(user))
}

func (h *UserHTTP) Patch(c echo.Context) error {
	actor, err := authmw.Identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.PatchUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.Svc.Update(c.Request().Context(), actor, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(user))
}

func (h *UserHTTP) Delete(c echo.Context) error {
	actor, err := authmw.Identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
