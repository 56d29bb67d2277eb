package cookie

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/vigilcam/portal/internal/core/domain"
)

func testSession() *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{ID: "sess-1", CreatedAt: now, ExpiresAt: now.Add(24 * time.Hour)}
}

func TestManager_EncodeDecode(t *testing.T) {
	m := NewManager(Config{Secret: "secret", TTL: 24 * time.Hour})

	value, err := m.Encode(testSession())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	id, err := m.Decode(value)
	if err != nil || id != "sess-1" {
		t.Fatalf("decode = %q, %v", id, err)
	}
}

func TestManager_Decode_Rejects(t *testing.T) {
	m := NewManager(Config{Secret: "secret"})
	other := NewManager(Config{Secret: "other"})

	foreign, _ := other.Encode(testSession())

	expiredSess := testSession()
	expiredSess.ExpiresAt = time.Now().Add(-time.Minute)
	expired, _ := m.Encode(expiredSess)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sid": "sess-1"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, value := range map[string]string{
		"foreign secret": foreign,
		"expired":        expired,
		"alg none":       unsigned,
		"garbage":        "s:abc.def",
	} {
		if _, err := m.Decode(value); !errors.Is(err, ErrInvalidCookie) {
			t.Fatalf("%s: expected ErrInvalidCookie, got %v", name, err)
		}
	}
}

func TestManager_SetAndRead(t *testing.T) {
	e := echo.New()
	m := NewManager(Config{Secret: "secret", TTL: 24 * time.Hour, Secure: true})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := m.Set(c, testSession()); err != nil {
		t.Fatalf("set: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != DefaultName || !ck.HttpOnly || !ck.Secure || ck.MaxAge != 86400 || ck.Path != "/" {
		t.Fatalf("unexpected cookie attributes: %+v", ck)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	id, err := m.SessionID(e.NewContext(req, httptest.NewRecorder()))
	if err != nil || id != "sess-1" {
		t.Fatalf("SessionID = %q, %v", id, err)
	}
}

func TestManager_Clear(t *testing.T) {
	e := echo.New()
	m := NewManager(Config{Name: "sid", Secret: "secret"})

	rec := httptest.NewRecorder()
	m.Clear(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sid" || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected an expiring cookie, got %+v", cookies)
	}
}

func TestManager_SessionID_Missing(t *testing.T) {
	e := echo.New()
	m := NewManager(Config{Secret: "secret"})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, err := m.SessionID(c); !errors.Is(err, ErrInvalidCookie) {
		t.Fatalf("expected ErrInvalidCookie, got %v", err)
	}
}
