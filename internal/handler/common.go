// Package handler contains the HTTP handlers: the owner-scoped product and
// ingredient APIs, auth endpoints, image upload and the public label pages.
package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/lukavran/winelabel/internal/middleware"
)

// validate checks request DTOs against their struct tags. The validator is
// stateless and safe for concurrent use.
var validate = validator.New()

var errNoPrincipal = errors.New("no principal in context")

// principalID extracts the principal id stored by the RequirePrincipal
// middleware. Handlers treat a missing or mistyped value as unauthenticated.
func principalID(c echo.Context) (uint64, error) {
	v := c.Get(middleware.ContextUserID)
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errNoPrincipal
}

// parseID parses the :id route parameter. Anything that is not a positive
// integer is rejected; this runs before any store access.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// validationMessage flattens validator errors into "field: rule" pairs so
// 400 responses name the offending fields.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
