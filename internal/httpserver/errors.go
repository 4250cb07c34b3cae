package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/summaries/internal/logging"
	"github.com/Skotchmaster/summaries/internal/service"
	"github.com/Skotchmaster/summaries/internal/validate"
)

type errorBody struct {
	Detail string                `json:"detail"`
	Errors []validate.FieldError `json:"errors,omitempty"`
}

var kindStatus = []struct {
	kind   error
	status int
}{
	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrExpiredToken, http.StatusUnauthorized},
	{service.ErrWrongTokenType, http.StatusUnauthorized},
	// acting on someone else's resource is reported as 405
	{service.ErrForbidden, http.StatusMethodNotAllowed},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrEmptyUpdate, http.StatusBadRequest},
	{service.ErrConflict, http.StatusBadRequest},
	{service.ErrMissingReference, http.StatusBadRequest},
	{service.ErrProtected, http.StatusBadRequest},
}

// resolve maps err to a status code and a client-safe body.
func resolve(err error) (int, errorBody) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, errorBody{Detail: http.StatusText(http.StatusUnprocessableEntity), Errors: verr.Fields}
	}
	if errors.Is(err, validate.ErrValidation) {
		return http.StatusUnprocessableEntity, errorBody{Detail: http.StatusText(http.StatusUnprocessableEntity)}
	}

	for _, ks := range kindStatus {
		if !errors.Is(err, ks.kind) {
			continue
		}
		detail := http.StatusText(ks.status)
		var se *service.Error
		if errors.As(err, &se) && ks.status != http.StatusMethodNotAllowed {
			detail = se.Detail
		}
		return ks.status, errorBody{Detail: detail}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		detail := http.StatusText(he.Code)
		if msg, ok := he.Message.(string); ok && msg != "" {
			detail = msg
		}
		return he.Code, errorBody{Detail: detail}
	}

	return http.StatusInternalServerError, errorBody{Detail: http.StatusText(http.StatusInternalServerError)}
}

// ErrorHandler renders every error as {"detail": ...}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := resolve(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response", "error", err)
	}
}
