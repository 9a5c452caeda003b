package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/jamhive/jam-session-booking/internal/model"
	"github.com/jamhive/jam-session-booking/internal/repository"
	"github.com/jamhive/jam-session-booking/internal/workflow"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetUserIDAcceptsCommonTypes(t *testing.T) {
	cases := []struct {
		name string
		val  interface{}
		want uint64
	}{
		{"uint64", uint64(7), 7},
		{"int", int(7), 7},
		{"int64", int64(7), 7},
		{"float64", float64(7), 7},
		{"string", "7", 7},
	}
	for _, tc := range cases {
		c, _ := newTestContext(t)
		c.Set("user_id", tc.val)
		got, err := getUserID(c)
		if err != nil || got != tc.want {
			t.Fatalf("%s: got %d err %v", tc.name, got, err)
		}
	}
}

func TestGetUserIDRejectsMissing(t *testing.T) {
	c, _ := newTestContext(t)
	if _, err := getUserID(c); err == nil {
		t.Fatal("missing user_id must error")
	}
}

func TestPrincipalEmailNormalizes(t *testing.T) {
	c, _ := newTestContext(t)
	c.Set("email", "  A@X.IO ")
	got, err := principalEmail(c)
	if err != nil || got != "a@x.io" {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestPrincipalEmailRejectsMissing(t *testing.T) {
	c, _ := newTestContext(t)
	if _, err := principalEmail(c); err == nil {
		t.Fatal("missing email must error")
	}
}

func TestBookingErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{repository.ErrForbidden, http.StatusForbidden},
		{repository.ErrUserNotFound, http.StatusForbidden},
		{repository.ErrSessionNotFound, http.StatusNotFound},
		{repository.ErrVenueNotFound, http.StatusNotFound},
		{repository.ErrVenueUnavailable, http.StatusConflict},
		{repository.ErrAlreadyJoined, http.StatusConflict},
		{workflow.ErrVenueRequired, http.StatusBadRequest},
		{workflow.ErrInvalidInput, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := newTestContext(t)
		if err := bookingError(c, tc.err); err != nil {
			t.Fatalf("%v: handler error %v", tc.err, err)
		}
		if rec.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestNormalizeRole(t *testing.T) {
	if got := normalizeRole(" jammer "); got != model.RoleJammer {
		t.Fatalf("expected JAMMER, got %q", got)
	}
	if got := normalizeRole("venue_owner"); got != model.RoleVenueOwner {
		t.Fatalf("expected VENUE_OWNER, got %q", got)
	}
	if got := normalizeRole("ADMIN"); got != model.RoleUnset {
		t.Fatalf("unknown roles must normalize to unset, got %q", got)
	}
}
