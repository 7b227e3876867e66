// Package middleware contains reusable HTTP middleware: principal
// resolution for the API, the session gate for page routes, response caching
// and rate limiting.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lukavran/winelabel/internal/auth"
)

// ContextUserID is the echo context key under which RequirePrincipal stores
// the resolved principal id (uint64).
const ContextUserID = "user_id"

// RequirePrincipal returns middleware that resolves the calling principal
// via the injected resolver and stores its id in the request context.
// Requests without a resolvable session get a generic 401; the reason for
// the failure is never echoed back. When resolution rotated the access
// token, the fresh cookie is propagated onto the response before the handler
// runs.
func RequirePrincipal(resolver auth.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := resolver.SessionFromRequest(c.Request().Context(), c.Request())
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if sess.Rotated != nil {
				auth.SetAccessCookie(c.Response(), *sess.Rotated)
			}
			c.Set(ContextUserID, sess.UserID)
			return next(c)
		}
	}
}
