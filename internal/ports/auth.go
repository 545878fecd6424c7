// Package ports holds the interfaces the service layer depends on.
// Concrete implementations live under internal/adapters.
package ports

import (
	"context"

	domainauth "github.com/samprabha/portal/internal/domain/auth"
)

// BeginInput carries the caller's desired post-login destination into the
// auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput carries the callback values needed to finish the flow.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider runs a two-step sign-in against an identity provider. Begin
// hands back the URL to send the user to plus the state and nonce the caller
// must hold onto; Exchange checks them and yields the verified identity.
type AuthProvider interface {
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists sessions keyed by session ID.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper decides the application role for an authenticated email.
// Implementations must be pure and total: no remote calls, no error path.
type RoleMapper interface {
	Map(email string) domainauth.Role
}
