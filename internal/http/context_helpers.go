package httpx

import (
	"context"

	domainauth "github.com/samprabha/portal/internal/domain/auth"
)

// sessionKey keys the authenticated session in request contexts. Every
// middleware and handler in this package goes through withSession and
// sessionFrom so the key never leaks.
type sessionKey struct{}

// withSession attaches the session to the context. A nil session leaves the
// context untouched.
func withSession(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// sessionFrom returns the session carried by the context, or nil for
// unauthenticated requests.
func sessionFrom(ctx context.Context) *domainauth.Session {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok {
		return session
	}
	return nil
}
