package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vigilcam/portal/internal/api/cookie"
	"github.com/vigilcam/portal/internal/core/ports"
)

const dashboardPath = "/dashboard"

type AuthHandler struct {
	authService ports.AuthService
	cookies     *cookie.Manager
}

func NewAuthHandler(authService ports.AuthService, cookies *cookie.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Register creates a new user account and opens a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}

	if err := h.cookies.Set(c, sess); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Success: true, Redirect: dashboardPath})
}

// Login authenticates a user and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	if err := h.cookies.Set(c, sess); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Success: true, Redirect: dashboardPath})
}

// Logout destroys the current session, clears the cookie and redirects home.
//
// @Summary      Logout
// @Tags         auth
// @Success      302
// @Failure      500   {object}  errorResponse
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if id, err := h.cookies.SessionID(c); err == nil {
		if err := h.authService.Logout(c.Request().Context(), id); err != nil {
			return err
		}
	}

	h.cookies.Clear(c)
	return c.Redirect(http.StatusFound, "/")
}
