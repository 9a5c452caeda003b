package model

import "time"

// Role values stored in users.role.  A freshly registered account may
// carry no role at all until onboarding assigns one; the empty string
// represents that unassigned state.
const (
	RoleUnset      = ""
	RoleJammer     = "JAMMER"
	RoleVenueOwner = "VENUE_OWNER"
)

// User represents an application user record as stored in the
// `users` table.  Identity is keyed by email: the authentication
// token and the stored record are linked only through the email
// column, never through the numeric ID.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name supplied at registration.
//	Email        – unique email address, the identity key.
//	PasswordHash – bcrypt hashed password.
//	Role         – RoleUnset, RoleJammer or RoleVenueOwner.
//	IsActive     – whether the account is active.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA-256 hex digest of the token value.
//	ExpiresAt – expiration timestamp of the token.
//	RevokedAt – when the token was revoked (null if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
