package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/summaries/internal/middleware/auth"
	"github.com/Skotchmaster/summaries/internal/service"
	"github.com/Skotchmaster/summaries/internal/transport"
)

type SummaryHTTP struct {
	Svc *service.SummaryService
}

func (h *SummaryHTTP) List(c echo.Context) error {
	var q transport.ListQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	list, err := h.Svc.List(c.Request().Context(), limitOrDefault(q.Limit))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewSummaryList(list))
}

func (h *SummaryHTTP) Search(c echo.Context) error {
	var q transport.SearchQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	list, err := h.Svc.Search(c.Request().Context(), q.Q, limitOrDefault(q.Limit))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewSummaryList(list))
}

func (h *SummaryHTTP) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewSummaryResponse(s))
}

func (h *SummaryHTTP) Create(c echo.Context) error {
	actor, err := authmw.Identity(c)
	if err != nil {
		return err
	}
	var req transport.CreateSummaryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	s, err := h.Svc.Create(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.NewSummaryResponse(s))
}

func (h *SummaryHTTP) Patch(c echo.Context) error {
	actor, err := authmw.Identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.PatchSummaryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	s, err := h.Svc.Update(c.Request().Context(), actor, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewSummaryResponse(s))
}

func (h *SummaryHTTP) Delete(c echo.Context) error {
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
