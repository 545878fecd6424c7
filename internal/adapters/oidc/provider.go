// Package oidc implements Google sign-in through standard OIDC discovery.
// The provider is generic OIDC underneath, so a different issuer can be
// swapped in through the discovery URL without code changes.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/samprabha/portal/internal/domain/auth"
	"github.com/samprabha/portal/internal/ports"
	"golang.org/x/oauth2"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	stateLength        = 32
)

// ProviderConfig configures the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	// HTTPClient overrides the default 30s-timeout client, mainly for tests.
	HTTPClient *http.Client
}

// Provider implements ports.AuthProvider against a discovered OIDC issuer.
type Provider struct {
	config       *oauth2.Config
	httpClient   *http.Client
	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// NewProvider runs OIDC discovery against the configured issuer and builds
// the OAuth2 config from the discovered endpoints. DiscoveryURL may be the
// bare issuer or include the well-known suffix.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	switch {
	case cfg.ClientID == "":
		return nil, errors.New("client ID is required")
	case cfg.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case cfg.RedirectURL == "":
		return nil, errors.New("redirect URL is required")
	case cfg.DiscoveryURL == "":
		return nil, errors.New("discovery URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	op, err := gooidc.NewProvider(ctx, issuerFromDiscoveryURL(cfg.DiscoveryURL))
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
		httpClient:   httpClient,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func issuerFromDiscoveryURL(discoveryURL string) string {
	issuer := strings.TrimSuffix(discoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	return strings.TrimSuffix(issuer, ".well-known/openid-configuration")
}

// Begin builds the authorization URL along with fresh state and nonce
// values. The caller persists both and checks them on the callback.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(stateLength)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(stateLength)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	// redirect_uri must match the registered RedirectURL exactly, so the
	// caller's redirect target is carried in state, not here.
	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

// Exchange trades the authorization code for tokens, verifies the ID token
// against the expected nonce, and returns the resulting identity. Fields the
// ID token does not carry are filled from the userinfo endpoint.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	fields, err := p.extractFromIDToken(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("extract id_token: %w", err)
	}

	if fields.subject == "" || fields.email == "" {
		if err := p.fillFromUserInfo(ctx, token.AccessToken, &fields); err != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", err)
		}
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(time.Hour)
	}

	return domainauth.Identity{
		UserID:      fields.subject,
		Email:       fields.email,
		DisplayName: fields.name,
		AvatarURL:   fields.picture,
		Provider:    domainauth.ProviderGoogle,
		ExpiresAt:   expiresAt,
	}, nil
}

// idFields accumulates identity attributes from the ID token and userinfo.
type idFields struct {
	subject string
	email   string
	name    string
	picture string
}

// idTokenClaims covers the claims Google puts in its ID tokens.
type idTokenClaims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Nonce   string `json:"nonce"`
}

// extractFromIDToken verifies the ID token and pulls identity fields from
// its claims. Without the openid scope there is no ID token and the result
// is empty, leaving userinfo as the only source.
func (p *Provider) extractFromIDToken(ctx context.Context, tok *oauth2.Token, expectedNonce string) (idFields, error) {
	if !p.hasOpenIDScope() {
		return idFields{}, nil
	}

	rawID, ok := tok.Extra("id_token").(string)
	if !ok || rawID == "" {
		return idFields{}, errors.New("id_token missing from token response")
	}

	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return idFields{}, fmt.Errorf("verify id_token: %w", err)
	}

	var claims idTokenClaims
	if err := idTok.Claims(&claims); err != nil {
		return idFields{}, fmt.Errorf("parse id_token claims: %w", err)
	}
	if expectedNonce != "" && claims.Nonce != expectedNonce {
		return idFields{}, errors.New("invalid nonce")
	}
	return mapIDTokenClaims(claims), nil
}

func mapIDTokenClaims(c idTokenClaims) idFields {
	return idFields{
		subject: c.Sub,
		email:   c.Email,
		name:    c.Name,
		picture: c.Picture,
	}
}

// UserInfo is the payload returned by the OIDC userinfo endpoint.
type UserInfo struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func (p *Provider) fillFromUserInfo(ctx context.Context, accessToken string, f *idFields) error {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	ui, err := p.oidcProvider.UserInfo(ctx, src)
	if err != nil {
		return fmt.Errorf("fetch user info: %w", err)
	}

	var info UserInfo
	if err := ui.Claims(&info); err != nil {
		return fmt.Errorf("decode user info: %w", err)
	}
	fillFromUserInfoClaims(f, info)
	return nil
}

// fillFromUserInfoClaims fills only the fields the ID token left empty.
func fillFromUserInfoClaims(f *idFields, ui UserInfo) {
	if f.subject == "" {
		f.subject = ui.Subject
	}
	if f.email == "" {
		f.email = ui.Email
	}
	if f.name == "" {
		f.name = ui.Name
	}
	if f.picture == "" {
		f.picture = ui.Picture
	}
}

func (p *Provider) hasOpenIDScope() bool {
	for _, scope := range p.config.Scopes {
		if scope == "openid" {
			return true
		}
	}
	return false
}

// generateRandomString returns a URL-safe random string of exactly length
// characters.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}

	b := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}
