// Package auth contains domain-level types for authentication and sessions,
// free of framework and adapter concerns.
package auth

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Provider tags which identity source an account came from.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderPassword Provider = "password"
)

// Identity represents the authenticated principal. OAuth adapters map
// provider claims into this shape; the password path fills it from the
// accounts table.
type Identity struct {
	UserID      string // stable user identifier (account ID or OIDC sub)
	Email       string
	DisplayName string
	AvatarURL   string
	Provider    Provider
	CreatedAt   time.Time
	ExpiresAt   time.Time // absolute expiry for the resulting session
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string) that
// doubles as the bearer token on the relay API.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	Provider    Provider  `json:"provider"`
	Role        Role      `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsAdmin returns true if the session role is admin.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
