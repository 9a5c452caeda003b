package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/jamhive/jam-session-booking/internal/model"
	"github.com/jamhive/jam-session-booking/internal/repository"
)

func TestResolveRoleNormalizesEmail(t *testing.T) {
	r := NewResolver(&fakeDirectory{users: map[string]model.User{
		"a@x.io": {ID: 3, Name: "Ana", Email: "a@x.io", Role: model.RoleJammer},
	}})

	p, err := r.ResolveRole(context.Background(), "  A@X.IO ")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if p.UserID != 3 || p.Email != "a@x.io" || p.Role != model.RoleJammer {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestResolveRoleUnknownEmail(t *testing.T) {
	r := NewResolver(&fakeDirectory{users: map[string]model.User{}})

	_, err := r.ResolveRole(context.Background(), "ghost@x.io")
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestResolveRoleUnsetRole(t *testing.T) {
	r := NewResolver(&fakeDirectory{users: map[string]model.User{
		"new@x.io": {ID: 9, Email: "new@x.io", Role: model.RoleUnset},
	}})

	p, err := r.ResolveRole(context.Background(), "new@x.io")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if p.Role != model.RoleUnset {
		t.Fatalf("role should stay unset until onboarding, got %q", p.Role)
	}
}
