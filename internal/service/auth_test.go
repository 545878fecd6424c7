package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samprabha/portal/internal/core"
	"github.com/samprabha/portal/internal/data"
	domainauth "github.com/samprabha/portal/internal/domain/auth"
	"github.com/samprabha/portal/internal/domain/model"
	apperrors "github.com/samprabha/portal/internal/errors"
	"github.com/samprabha/portal/internal/mocks"
	mockauth "github.com/samprabha/portal/internal/mocks/auth"
	"github.com/samprabha/portal/internal/ports"
	"github.com/samprabha/portal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authFixture struct {
	provider *mockauth.MockAuthProvider
	sessions *mockauth.MemorySessionStore
	accounts *mocks.MockAccountRepository
	service  *AuthService
}

func newAuthFixture(t *testing.T, adminEmails ...string) *authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &authFixture{
		provider: mockauth.NewMockAuthProvider(),
		sessions: mockauth.NewMemorySessionStore(),
		accounts: mocks.NewMockAccountRepository(ctrl),
	}
	f.service = NewAuthService(AuthServiceOptions{
		Provider: f.provider,
		Sessions: f.sessions,
		Roles:    mockauth.StaticRoleMapper{AdminEmails: adminEmails},
		Accounts: f.accounts,
	})
	return f
}

func TestAuthService_BeginLogin(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.service.BeginLogin(context.Background(), "https://portal.example.com/auth/callback")
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)

	// A second flow gets fresh state and nonce
	result2, err := f.service.BeginLogin(context.Background(), "https://portal.example.com/auth/callback")
	require.NoError(t, err)
	assert.Equal(t, "state-2", result2.State)
	assert.NotEqual(t, result.Nonce, result2.Nonce)
}

func TestAuthService_BeginLogin_Validation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.BeginLogin(context.Background(), "")
	assert.ErrorContains(t, err, "redirect URL is required")
}

func TestAuthService_BeginLogin_ProviderError(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.BeginFunc = func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
		return "", "", "", errors.New("idp unreachable")
	}

	_, err := f.service.BeginLogin(context.Background(), "https://portal.example.com/auth/callback")
	require.Error(t, err)
	assert.True(t, apperrors.IsProvider(err))
}

func TestAuthService_CompleteLogin(t *testing.T) {
	f := newAuthFixture(t)

	f.accounts.EXPECT().
		UpsertOAuth(gomock.Any(), core.UpsertOAuthParams{
			Email:       "mock.user@example.com",
			DisplayName: "Mock User",
		}).
		Return(&model.Account{ID: "acct-1", Email: "mock.user@example.com"}, nil)

	result, err := f.service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})
	require.NoError(t, err)

	sess := result.Session
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "acct-1", sess.UserID)
	assert.Equal(t, "mock.user@example.com", sess.Email)
	assert.Equal(t, domainauth.ProviderGoogle, sess.Provider)
	assert.Equal(t, domainauth.RoleUser, sess.Role)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	// Session must be retrievable from the store
	stored, err := f.sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Email, stored.Email)
}

func TestAuthService_CompleteLogin_AdminEmail(t *testing.T) {
	f := newAuthFixture(t, "mock.user@example.com")

	f.accounts.EXPECT().
		UpsertOAuth(gomock.Any(), gomock.Any()).
		Return(&model.Account{ID: "acct-1", Email: "mock.user@example.com"}, nil)

	result, err := f.service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, result.Session.Role)
	assert.True(t, result.Session.IsAdmin())
}

func TestAuthService_CompleteLogin_UpsertFailureDoesNotBlock(t *testing.T) {
	f := newAuthFixture(t)

	f.accounts.EXPECT().
		UpsertOAuth(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("db down"))

	result, err := f.service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})
	require.NoError(t, err)
	// Falls back to the provider subject when the account row is unavailable
	assert.Equal(t, "mock-user-1", result.Session.UserID)
}

func TestAuthService_CompleteLogin_Validation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.CompleteLogin(ctx, CompleteLoginInput{State: "s", Nonce: "n"})
	assert.ErrorContains(t, err, "authorization code is required")

	_, err = f.service.CompleteLogin(ctx, CompleteLoginInput{Code: "c", Nonce: "n"})
	assert.ErrorContains(t, err, "state parameter is required")

	_, err = f.service.CompleteLogin(ctx, CompleteLoginInput{Code: "c", State: "s"})
	assert.ErrorContains(t, err, "nonce parameter is required")
}

func TestAuthService_CompleteLogin_ExchangeError(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.ExchangeFunc = func(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("state mismatch")
	}

	_, err := f.service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "tampered",
		Nonce: "nonce-1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsProvider(err))
	assert.Equal(t, 0, f.sessions.Len())
}

func TestAuthService_SignUpWithPassword(t *testing.T) {
	f := newAuthFixture(t)

	req := testutil.NewAccountRequest().WithEmail("new.user@example.com").Build()
	f.accounts.EXPECT().
		Create(gomock.Any(), &req).
		Return(&model.Account{ID: "acct-7", Email: req.Email, DisplayName: req.DisplayName}, nil)

	result, err := f.service.SignUpWithPassword(context.Background(), &req)
	require.NoError(t, err)
	assert.Equal(t, "acct-7", result.Session.UserID)
	assert.Equal(t, domainauth.ProviderPassword, result.Session.Provider)
	assert.Equal(t, domainauth.RoleUser, result.Session.Role)
	assert.Equal(t, 1, f.sessions.Len())
}

func TestAuthService_SignUpWithPassword_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	req := testutil.NewAccountRequest().Build()
	f.accounts.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, data.ErrAccountEmailExists)

	_, err := f.service.SignUpWithPassword(context.Background(), &req)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, 0, f.sessions.Len())
}

func TestAuthService_SignInWithPassword(t *testing.T) {
	f := newAuthFixture(t, "admin@example.com")

	f.accounts.EXPECT().
		Authenticate(gomock.Any(), "admin@example.com", "correct-horse-battery").
		Return(&model.Account{ID: "acct-9", Email: "admin@example.com"}, nil)

	result, err := f.service.SignInWithPassword(context.Background(), "admin@example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, result.Session.Role)
	assert.Equal(t, domainauth.ProviderPassword, result.Session.Provider)
}

func TestAuthService_SignInWithPassword_BadCredentials(t *testing.T) {
	f := newAuthFixture(t)

	f.accounts.EXPECT().
		Authenticate(gomock.Any(), "user@example.com", "wrong").
		Return(nil, data.ErrInvalidCredentials)

	_, err := f.service.SignInWithPassword(context.Background(), "user@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, 0, f.sessions.Len())
}

func TestAuthService_GetSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	sess := domainauth.Session{
		ID:        "sess-1",
		Email:     "user@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, f.sessions.Save(ctx, sess))

	got, err := f.service.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got.Email)

	_, err = f.service.GetSession(ctx, "")
	assert.ErrorContains(t, err, "session ID is required")

	_, err = f.service.GetSession(ctx, "missing")
	assert.Error(t, err)
}

func TestAuthService_GetSession_ExpiredIsDeleted(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	sess := domainauth.Session{
		ID:        "sess-stale",
		Email:     "user@example.com",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, f.sessions.Save(ctx, sess))

	_, err := f.service.GetSession(ctx, "sess-stale")
	assert.ErrorIs(t, err, errSessionExpired)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestAuthService_VerifyToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	sess := domainauth.Session{
		ID:        "token-1",
		Email:     "user@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, f.sessions.Save(ctx, sess))

	got, err := f.service.VerifyToken(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got.Email)

	_, err = f.service.VerifyToken(ctx, "bogus-token")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_UpdateProfile(t *testing.T) {
	f := newAuthFixture(t)

	req := model.UpdateProfileRequest{DisplayName: testutil.StringPtr("Renamed")}
	f.accounts.EXPECT().
		UpdateProfile(gomock.Any(), "acct-1", req).
		Return(&model.Account{ID: "acct-1", DisplayName: "Renamed"}, nil)

	acct, err := f.service.UpdateProfile(context.Background(), "acct-1", req)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", acct.DisplayName)
}

func TestAuthService_UpdateProfile_NotFound(t *testing.T) {
	f := newAuthFixture(t)

	f.accounts.EXPECT().
		UpdateProfile(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, data.ErrAccountNotFound)

	_, err := f.service.UpdateProfile(context.Background(), "missing", model.UpdateProfileRequest{
		DisplayName: testutil.StringPtr("Nobody"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	sess := domainauth.Session{ID: "sess-out", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.sessions.Save(ctx, sess))

	require.NoError(t, f.service.Logout(ctx, "sess-out"))
	assert.Equal(t, 0, f.sessions.Len())

	// Logout with no session is a no-op
	require.NoError(t, f.service.Logout(ctx, ""))
}
