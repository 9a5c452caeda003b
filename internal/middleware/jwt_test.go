package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/jamhive/jam-session-booking/internal/utils"
)

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler chain error: %v", err)
	}
	return rec, c
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	at, err := utils.NewAccessToken("s3cret", 12, "a@x.io", "JAMMER", 5)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	rec, c := runProtected(t, "Bearer "+at.Token, JWTAuth("s3cret"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if c.Get("email") != "a@x.io" {
		t.Fatalf("email not injected: %v", c.Get("email"))
	}
	if c.Get("role") != "JAMMER" {
		t.Fatalf("role not injected: %v", c.Get("role"))
	}
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, _ := runProtected(t, "", JWTAuth("s3cret"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	at, _ := utils.NewAccessToken("other", 12, "a@x.io", "JAMMER", 5)
	rec, _ := runProtected(t, "Bearer "+at.Token, JWTAuth("s3cret"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRoleGatesByClaim(t *testing.T) {
	at, _ := utils.NewAccessToken("s3cret", 12, "a@x.io", "JAMMER", 5)

	rec, _ := runProtected(t, "Bearer "+at.Token, JWTAuth("s3cret"), RequireRole("JAMMER"))
	if rec.Code != http.StatusOK {
		t.Fatalf("jammer should pass, got %d", rec.Code)
	}

	rec, _ = runProtected(t, "Bearer "+at.Token, JWTAuth("s3cret"), RequireRole("VENUE_OWNER"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("jammer must not pass owner gate, got %d", rec.Code)
	}
}

func TestRequireRoleRejectsUnsetRole(t *testing.T) {
	at, _ := utils.NewAccessToken("s3cret", 12, "a@x.io", "", 5)
	rec, _ := runProtected(t, "Bearer "+at.Token, JWTAuth("s3cret"), RequireRole("JAMMER", "VENUE_OWNER"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unset role must be rejected, got %d", rec.Code)
	}
}
