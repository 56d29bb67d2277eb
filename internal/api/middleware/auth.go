package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vigilcam/portal/internal/api/cookie"
	"github.com/vigilcam/portal/internal/core/domain"
	"github.com/vigilcam/portal/internal/core/ports"
)

// SessionKey is the echo context key holding the *domain.Session of an
// authenticated request.
const SessionKey = "session"

// LoadSession resolves the session cookie into a session and injects it into
// the context. Requests with a missing, forged or stale cookie continue as
// anonymous. Storage failures abort the request.
func LoadSession(sessions ports.SessionManager, cookies *cookie.Manager, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := cookies.SessionID(c)
			if err != nil {
				return next(c)
			}

			sess, err := sessions.Validate(c.Request().Context(), id)
			switch {
			case err == nil:
				c.Set(SessionKey, sess)
			case errors.Is(err, domain.ErrInvalidSession):
				log.Debug().Msg("stale session cookie")
			default:
				return err
			}
			return next(c)
		}
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(SessionKey).(*domain.Session); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthorized.Error())
			}
			return next(c)
		}
	}
}

// RedirectAnonymous sends anonymous requests to target.
func RedirectAnonymous(target string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(SessionKey).(*domain.Session); !ok {
				return c.Redirect(http.StatusFound, target)
			}
			return next(c)
		}
	}
}
