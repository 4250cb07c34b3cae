package httpserver

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/summaries/internal/validate"
)

const (
	defaultLimit = 100
	maxLimit     = 100
)

// bind decodes the request into req and validates it. Undecodable bodies
// are reported like schema violations.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &validate.Error{Fields: []validate.FieldError{{Field: "body", Rule: "decode"}}}
	}
	return c.Validate(req)
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, &validate.Error{Fields: []validate.FieldError{{Field: name, Rule: "uint"}}}
	}
	return uint(id), nil
}

// limitOrDefault clamps an optional limit to (0, maxLimit].
func limitOrDefault(limit *int) int {
	if limit == nil {
		return defaultLimit
	}
	if *limit > maxLimit {
		return maxLimit
	}
	return *limit
}
