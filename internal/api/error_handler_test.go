package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vigilcam/portal/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, "fullName, email and password are required"},
		{"password mismatch", domain.ErrPasswordMismatch, http.StatusBadRequest, domain.ErrPasswordMismatch.Error()},
		{"password too long", domain.ErrPasswordTooLong, http.StatusBadRequest, domain.ErrPasswordTooLong.Error()},
		{"email taken", domain.ErrEmailTaken, http.StatusBadRequest, domain.ErrEmailTaken.Error()},
		{"wrapped credentials", fmt.Errorf("login: %w", domain.ErrInvalidCredentials), http.StatusBadRequest, domain.ErrInvalidCredentials.Error()},
		{"invalid session", domain.ErrInvalidSession, http.StatusUnauthorized, domain.ErrUnauthorized.Error()},
		{"echo error", echo.NewHTTPError(http.StatusNotFound, "not found"), http.StatusNotFound, "not found"},
		{"storage error", &domain.StorageError{Op: "create user", Err: errors.New("connection reset")}, http.StatusInternalServerError, "internal server error"},
		{"session error", &domain.SessionError{Op: "validate", Err: errors.New("redis down")}, http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late failure"), c)

	if rec.Code != http.StatusAccepted || rec.Body.Len() != 0 {
		t.Fatalf("committed response must not be rewritten, got %d %q", rec.Code, rec.Body.String())
	}
}
