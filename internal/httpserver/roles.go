package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/summaries/internal/middleware/auth"
	"github.com/Skotchmaster/summaries/internal/service"
	"github.com/Skotchmaster/summaries/internal/transport"
)

type RoleHTTP struct {
	Svc *service.RoleService
}

func (h *RoleHTTP) List(c echo.Context) error {
	var q transport.ListQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	roles, err := h.Svc.List(c.Request().Context(), limitOrDefault(q.Limit))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewRoleList(roles))
}

func (h *RoleHTTP) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	role, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewRoleResponse(role))
}

func (h *RoleHTTP) Create(c echo.Context) error {
	actor, err := authmw.Identity(c)
	if err != nil {
		return err
	}
	var req transport.CreateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, err := h.Svc.Create(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.NewRoleResponse(role))
}

func (h *RoleHTTP) Patch(c echo.Context) error {
	actor, err := authmw.Identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.PatchRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, err := h.Svc.Update(c.Request().Context(), actor, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewRoleResponse(role))
}

func (h *RoleHTTP) Delete(c echo.Context) error {
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
