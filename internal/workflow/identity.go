package workflow

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jamhive/jam-session-booking/internal/model"
	"github.com/jamhive/jam-session-booking/internal/repository"
)

// Principal is the authenticated identity performing an action.  It is
// resolved from the users table by email at action time; the email in
// the access token is the only attribute trusted for authorization.
type Principal struct {
	UserID uint64
	Name   string
	Email  string
	Role   string
}

// UserDirectory is the slice of the user store the resolver needs.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// Resolver maps a principal email to its stored user record and role.
// The token already carries a role claim, but claims go stale the
// moment a role changes; every workflow entry point resolves the role
// freshly from the store instead of trusting the claim.
type Resolver struct {
	Users UserDirectory
}

// NewResolver returns a Resolver over the given user directory.
func NewResolver(users UserDirectory) *Resolver { return &Resolver{Users: users} }

// ResolveRole looks up the user record behind an email.  Returns
// repository.ErrUserNotFound when no record matches.  When duplicate
// records share an email the directory returns the lowest-id row, so
// resolution is deterministic.
func (r *Resolver) ResolveRole(ctx context.Context, email string) (Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := r.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Principal{}, repository.ErrUserNotFound
		}
		return Principal{}, err
	}
	return Principal{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}
