package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/summaries/internal/logging"
)

// Check is a named readiness probe.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
	// Optional checks are reported but never fail readiness.
	Optional bool
}

type HealthHTTP struct {
	Checks []Check
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Ready reports 503 when a required check fails.
func (h *HealthHTTP) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	report := make(map[string]string, len(h.Checks))
	for _, chk := range h.Checks {
		if err := chk.Ping(ctx); err != nil {
			logging.FromContext(ctx).Warn("readiness_check_failed", "check", chk.Name, "error", err)
			report[chk.Name] = "unavailable"
			if !chk.Optional {
				status = http.StatusServiceUnavailable
			}
			continue
		}
		report[chk.Name] = "ok"
	}
	return c.JSON(status, report)
}
