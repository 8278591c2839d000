package middleware

import (
	"net/http"

	"craft-store/internal/guard"
	"craft-store/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName matches the *session-token cookie contract; the
	// middleware only checks presence, full validation happens in the
	// session resolver.
	SessionCookieName = "session-token"

	sessionContextKey = "session"
)

// ResolveSession attaches the caller's session to the echo context. A
// missing or invalid token leaves the request unauthenticated rather than
// failing it; the guard decides what unauthenticated requests may reach.
func ResolveSession(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			session, err := authService.ResolveSession(cookie.Value)
			if err != nil {
				return next(c)
			}

			SetSession(c, session)
			return next(c)
		}
	}
}

// SetSession stores a resolved session on the echo context.
func SetSession(c echo.Context, session *guard.Session) {
	c.Set(sessionContextKey, session)
}

// SessionFromContext returns the resolved session, or nil for an
// unauthenticated request.
func SessionFromContext(c echo.Context) *guard.Session {
	session, _ := c.Get(sessionContextKey).(*guard.Session)
	return session
}

// Guard translates guard decisions into HTTP redirects. Redirecting is the
// normal outcome of route classification, never an error.
func Guard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := guard.CheckAccess(SessionFromContext(c), c.Request().URL.Path)
			if !decision.Allow {
				return c.Redirect(http.StatusFound, decision.RedirectTo)
			}

			return next(c)
		}
	}
}
