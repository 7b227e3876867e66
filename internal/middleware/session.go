package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lukavran/winelabel/internal/auth"
)

// Path classification for the session gate. Protected paths are matched by
// prefix, auth-only paths exactly.
const dashboardPrefix = "/dashboard"

var authOnlyPaths = map[string]bool{
	"/login":           true,
	"/signup":          true,
	"/forgot-password": true,
}

// routeClass is the outcome of classifying a request path. Every path falls
// into exactly one class.
type routeClass int

const (
	routeOther routeClass = iota
	routeProtected
	routeAuthOnly
	routeRoot
)

func classify(path string) routeClass {
	switch {
	case path == "/":
		return routeRoot
	case strings.HasPrefix(path, dashboardPrefix):
		return routeProtected
	case authOnlyPaths[path]:
		return routeAuthOnly
	default:
		return routeOther
	}
}

// SessionGate returns the middleware guarding page routes: it keeps
// unauthenticated visitors off the dashboard and signed-in users off the
// auth pages. API and static paths are skipped; those resolve the principal
// themselves.
//
// Resolution failures of any kind (missing cookie, malformed token,
// unreachable store) count as "no session": protected routes fail closed
// into a login redirect, public routes fail open. Rotated access cookies
// from refresh-token resolution are always propagated onto the response,
// including on redirects.
func SessionGate(resolver auth.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/static/") || path == "/healthz" {
				return next(c)
			}

			sess, err := resolver.SessionFromRequest(c.Request().Context(), c.Request())
			hasSession := err == nil
			if hasSession && sess.Rotated != nil {
				auth.SetAccessCookie(c.Response(), *sess.Rotated)
			}

			switch classify(path) {
			case routeProtected:
				if !hasSession {
					return c.Redirect(http.StatusSeeOther, "/login")
				}
			case routeAuthOnly:
				if hasSession {
					return c.Redirect(http.StatusSeeOther, dashboardPrefix)
				}
			case routeRoot:
				if hasSession {
					return c.Redirect(http.StatusSeeOther, dashboardPrefix)
				}
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}
