// Package cookie issues and reads the session cookie. The cookie value is an
// HS256 JWT whose "sid" claim holds the server-side session ID, so a value
// that was not signed with the server secret is never looked up.
package cookie

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/vigilcam/portal/internal/core/domain"
)

const DefaultName = "connect.sid"

var ErrInvalidCookie = errors.New("invalid session cookie")

type Config struct {
	Name   string
	Secret string
	TTL    time.Duration
	Secure bool
}

type Manager struct {
	name   string
	secret []byte
	ttl    time.Duration
	secure bool
}

type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func NewManager(cfg Config) *Manager {
	name := cfg.Name
	if name == "" {
		name = DefaultName
	}
	return &Manager{name: name, secret: []byte(cfg.Secret), ttl: cfg.TTL, secure: cfg.Secure}
}

// Name returns the cookie name.
func (m *Manager) Name() string { return m.name }

// Encode signs the session ID into a cookie value that expires with the session.
func (m *Manager) Encode(sess *domain.Session) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		},
	})
	return t.SignedString(m.secret)
}

// Decode verifies the signature and expiry of value and returns the session ID.
func (m *Manager) Decode(value string) (string, error) {
	var c claims
	tkn, err := jwt.ParseWithClaims(value, &c, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || c.SessionID == "" {
		return "", ErrInvalidCookie
	}
	return c.SessionID, nil
}

// Set writes the session cookie on the response.
func (m *Manager) Set(c echo.Context, sess *domain.Session) error {
	value, err := m.Encode(sess)
	if err != nil {
		return err
	}
	maxAge := int(m.ttl.Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Until(sess.ExpiresAt).Seconds())
	}
	c.SetCookie(&http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear instructs the client to drop the session cookie.
func (m *Manager) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID reads and verifies the session cookie on the request.
func (m *Manager) SessionID(c echo.Context) (string, error) {
	ck, err := c.Cookie(m.name)
	if err != nil || ck.Value == "" {
		return "", ErrInvalidCookie
	}
	return m.Decode(ck.Value)
}
