// Package service provides the business logic layer for the portal.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samprabha/portal/internal/core"
	"github.com/samprabha/portal/internal/data"
	domainauth "github.com/samprabha/portal/internal/domain/auth"
	"github.com/samprabha/portal/internal/domain/model"
	apperrors "github.com/samprabha/portal/internal/errors"
	"github.com/samprabha/portal/internal/ports"
)

const defaultSessionTTL = 12 * time.Hour

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	Accounts core.AccountRepository
	// SessionTTL bounds how long sessions live. Defaults to 12h when zero.
	SessionTTL time.Duration
}

// AuthService orchestrates sign-in flows. Google sign-in and email/password
// sign-in both converge on the same session shape; the role is resolved from
// the email at session creation and never re-evaluated mid-session.
type AuthService struct {
	provider   ports.AuthProvider
	sessions   ports.SessionStore
	roles      ports.RoleMapper
	accounts   core.AccountRepository
	sessionTTL time.Duration
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{
		provider:   opts.Provider,
		sessions:   opts.Sessions,
		roles:      opts.Roles,
		accounts:   opts.Accounts,
		sessionTTL: ttl,
	}
}

// BeginLoginResult contains the result of beginning a Google sign-in flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates Google sign-in and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	input := ports.BeginInput{RedirectURL: redirectURL}
	authURL, state, nonce, err := s.provider.Begin(ctx, input)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeProvider, "begin auth flow")
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing a Google sign-in flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a sign-in flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin completes Google sign-in by exchanging the code for an
// identity, provisioning the account row, resolving the role from the email,
// and persisting a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	exchangeInput := ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	}
	identity, err := s.provider.Exchange(ctx, exchangeInput)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeProvider, "exchange authorization code")
	}

	// Keep the accounts table in sync with what Google reports. A failure
	// here does not block sign-in; the session is the source of truth for
	// the request path.
	account, upsertErr := s.accounts.UpsertOAuth(ctx, core.UpsertOAuthParams{
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
	})

	userID := identity.UserID
	if upsertErr == nil && account != nil {
		userID = account.ID
	}

	session := s.newSession(sessionSeed{
		UserID:      userID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
		Provider:    domainauth.ProviderGoogle,
	})

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &CompleteLoginResult{Session: session}, nil
}

// SignUpWithPassword registers a new email/password account and signs it in.
func (s *AuthService) SignUpWithPassword(
	ctx context.Context,
	req *model.CreateAccountRequest,
) (*CompleteLoginResult, error) {
	account, err := s.accounts.Create(ctx, req)
	if err != nil {
		if errors.Is(err, data.ErrAccountEmailExists) {
			return nil, apperrors.Conflict("An account with this email already exists.")
		}
		return nil, err
	}
	return s.startAccountSession(ctx, account)
}

// SignInWithPassword verifies an email/password pair and creates a session.
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*CompleteLoginResult, error) {
	account, err := s.accounts.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, data.ErrInvalidCredentials) {
			return nil, apperrors.Unauthorized("Invalid email or password.")
		}
		return nil, err
	}
	return s.startAccountSession(ctx, account)
}

func (s *AuthService) startAccountSession(ctx context.Context, account *model.Account) (*CompleteLoginResult, error) {
	var avatar string
	if account.AvatarURL != nil {
		avatar = *account.AvatarURL
	}
	session := s.newSession(sessionSeed{
		UserID:      account.ID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		AvatarURL:   avatar,
		Provider:    domainauth.ProviderPassword,
	})
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &CompleteLoginResult{Session: session}, nil
}

// sessionSeed carries the identity fields a new session is built from.
type sessionSeed struct {
	UserID      string
	Email       string
	DisplayName string
	AvatarURL   string
	Provider    domainauth.Provider
}

func (s *AuthService) newSession(seed sessionSeed) domainauth.Session {
	return domainauth.Session{
		ID:          generateSessionID(),
		UserID:      seed.UserID,
		Email:       seed.Email,
		DisplayName: seed.DisplayName,
		AvatarURL:   seed.AvatarURL,
		Provider:    seed.Provider,
		Role:        s.roles.Map(seed.Email),
		ExpiresAt:   time.Now().Add(s.sessionTTL),
	}
}

// GetSession loads the session for sessionID. Sessions past their expiry are
// removed from the store and reported as expired even when the store still
// held them.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}
	return &session, nil
}

// VerifyToken validates a bearer token. The session ID doubles as the token,
// so verification is a session lookup.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domainauth.Session, error) {
	session, err := s.GetSession(ctx, token)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "invalid token")
	}
	return session, nil
}

// UpdateProfile updates the signed-in user's mutable profile fields.
func (s *AuthService) UpdateProfile(
	ctx context.Context,
	userID string,
	req model.UpdateProfileRequest,
) (*model.Account, error) {
	account, err := s.accounts.UpdateProfile(ctx, userID, req)
	if err != nil {
		if errors.Is(err, data.ErrAccountNotFound) {
			return nil, apperrors.NotFound("Account not found")
		}
		return nil, err
	}
	return account, nil
}

// Logout deletes the session. An empty ID is a no-op so callers can log out
// unconditionally.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Session IDs double as bearer tokens, so they need real entropy. A random
// UUID gives 122 bits and stays URL-safe.
func generateSessionID() string {
	return uuid.NewString()
}
