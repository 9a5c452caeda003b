// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// workflow and handlers to distinguish between different failure
// scenarios. For example, ErrVenueUnavailable indicates that a claim
// lost the race for an OPEN venue, while ErrAlreadyJoined signals
// that a membership for the same session and member already exists.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// reserved for a different role or on a resource they do not own.
// Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when a registration collides with an
// existing user email. The users table carries a unique key on email,
// so the database is the final arbiter.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user record matches the
// principal's email.
var ErrUserNotFound = errors.New("user not found")

// ErrVenueNotFound is returned when a venue lookup misses.
var ErrVenueNotFound = errors.New("venue not found")

// ErrSessionNotFound is returned when a jam session lookup misses.
var ErrSessionNotFound = errors.New("session not found")

// ErrVenueUnavailable is returned when a conditional claim finds the
// venue in any status other than OPEN. At most one concurrent claim
// on a venue can avoid this error.
var ErrVenueUnavailable = errors.New("venue unavailable")

// ErrAlreadyJoined is returned when a join request finds an existing
// membership for the same session and member email. It is
// informational rather than fatal: the caller already has what they
// asked for.
var ErrAlreadyJoined = errors.New("already joined")

// ErrRoleAlreadySet is returned when onboarding attempts to assign a
// role to a user whose role was set before. Roles are written exactly
// once.
var ErrRoleAlreadySet = errors.New("role already set")
