// Package devauth implements the auth provider port for local development.
// It stands in for Google sign-in when no OAuth client is configured: Begin
// redirects straight back to our own callback, and Exchange returns a fixed
// identity from configuration instead of exchanging a real code.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/samprabha/portal/internal/domain/auth"
	"github.com/samprabha/portal/internal/ports"
)

const (
	defaultSessionDuration = 8 * time.Hour
	// Identities within this window of expiry get a fresh expiry on Exchange.
	refreshThreshold = 5 * time.Minute
	// 18 random bytes encode to 24 URL-safe base64 characters.
	tokenBytes = 18
)

// Config controls the identity the dev provider hands out.
type Config struct {
	UserID          string
	Email           string
	DisplayName     string
	SessionDuration time.Duration
}

// Provider implements ports.AuthProvider with a configured local identity.
type Provider struct {
	identity        domainauth.Identity
	sessionDuration time.Duration
}

// NewProvider validates cfg and builds the provider. UserID and Email are
// required; SessionDuration defaults to 8 hours.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}

	duration := cfg.SessionDuration
	if duration == 0 {
		duration = defaultSessionDuration
	}

	return &Provider{
		identity: domainauth.Identity{
			UserID:      cfg.UserID,
			Email:       cfg.Email,
			DisplayName: cfg.DisplayName,
			Provider:    domainauth.ProviderGoogle,
			ExpiresAt:   time.Now().Add(duration),
		},
		sessionDuration: duration,
	}, nil
}

// Begin skips the provider round trip and points the browser at our own
// callback. State and nonce are still real random tokens so the callback
// handler exercises the same validation path as production.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomToken()
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomToken()
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	return "/auth/callback?code=dev&state=" + state, state, nonce, nil
}

// Exchange returns the configured identity. The code and nonce are not
// checked here; the callback handler validates state before calling in.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	if time.Until(p.identity.ExpiresAt) < refreshThreshold {
		p.identity.ExpiresAt = time.Now().Add(p.sessionDuration)
	}
	return p.identity, nil
}

func randomToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
