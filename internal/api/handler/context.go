package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vigilcam/portal/internal/api/middleware"
	"github.com/vigilcam/portal/internal/core/domain"
)

// ctxSession returns the session injected by middleware.LoadSession, or 401
// when the request is anonymous.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, ok := c.Get(middleware.SessionKey).(*domain.Session)
	if !ok || sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthorized.Error())
	}
	return sess, nil
}
