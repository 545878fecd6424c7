package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/samprabha/portal/internal/domain/auth"
	apperrors "github.com/samprabha/portal/internal/errors"
	"github.com/samprabha/portal/internal/service"
)

func testSessionResult(id string) *service.CompleteLoginResult {
	return &service.CompleteLoginResult{
		Session: domainauth.Session{
			ID:        id,
			UserID:    "user-1",
			Email:     "priya@example.com",
			Provider:  domainauth.ProviderGoogle,
			Role:      domainauth.RoleUser,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func cookieValue(t *testing.T, w *httptest.ResponseRecorder, name string) (string, bool) {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestGoogleLoginRedirectsToProvider(t *testing.T) {
	svc := &stubAuthService{
		beginLoginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
			require.Equal(t, "/dashboard", redirectURL)
			return &service.BeginLoginResult{
				AuthURL: "https://accounts.google.com/o/oauth2/auth?state=st-1",
				State:   "st-1",
				Nonce:   "nc-1",
			}, nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/auth/google?redirect_uri=/dashboard", nil)
	w := httptest.NewRecorder()
	h.GoogleLogin(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "accounts.google.com")

	state, ok := cookieValue(t, w, "oauth_state")
	require.True(t, ok)
	assert.Equal(t, "st-1", state)
	nonce, ok := cookieValue(t, w, "oauth_nonce")
	require.True(t, ok)
	assert.Equal(t, "nc-1", nonce)
	redirect, ok := cookieValue(t, w, "post_login_redirect")
	require.True(t, ok)
	assert.Equal(t, "/dashboard", redirect)
}

func TestGoogleLoginSanitizesRedirect(t *testing.T) {
	svc := &stubAuthService{
		beginLoginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
			assert.Equal(t, "/", redirectURL)
			return &service.BeginLoginResult{AuthURL: "https://idp.example/auth"}, nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/auth/google?redirect_uri=https://evil.example", nil)
	w := httptest.NewRecorder()
	h.GoogleLogin(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
}

func TestCallbackCompletesLogin(t *testing.T) {
	var gotInput service.CompleteLoginInput
	svc := &stubAuthService{
		completeLoginFunc: func(_ context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			gotInput = input
			return testSessionResult("sess-new"), nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=auth-code&state=st-1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st-1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nc-1"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/dashboard"})
	w := httptest.NewRecorder()
	h.Callback(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Equal(t, service.CompleteLoginInput{Code: "auth-code", State: "st-1", Nonce: "nc-1"}, gotInput)

	session, ok := cookieValue(t, w, SessionCookieName)
	require.True(t, ok)
	assert.Equal(t, "sess-new", session)
}

func TestCallbackDefaultsToDashboard(t *testing.T) {
	svc := &stubAuthService{
		completeLoginFunc: func(context.Context, service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			return testSessionResult("sess-new"), nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	// "/" is the redirect cookie value a plain /login visit produces.
	for _, redirect := range []string{"", "/"} {
		req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=auth-code&state=st-1", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st-1"})
		req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nc-1"})
		if redirect != "" {
			req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: redirect})
		}
		w := httptest.NewRecorder()
		h.Callback(w, req)

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	}
}

func TestCallbackRejectsStateMismatch(t *testing.T) {
	h := &AuthHandlers{Svc: &stubAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=auth-code&state=st-forged", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st-1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nc-1"})
	w := httptest.NewRecorder()
	h.Callback(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_state")
}

func TestCallbackRejectsMissingParameters(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		errCode string
	}{
		{"no code", "state=st-1", "missing_code"},
		{"no state", "code=auth-code", "missing_state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &AuthHandlers{Svc: &stubAuthService{}}

			req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+tt.query, nil)
			w := httptest.NewRecorder()
			h.Callback(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.errCode)
		})
	}
}

func TestCallbackRejectsMissingNonceCookie(t *testing.T) {
	h := &AuthHandlers{Svc: &stubAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=auth-code&state=st-1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st-1"})
	w := httptest.NewRecorder()
	h.Callback(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_nonce")
}

func TestPasswordLoginSuccess(t *testing.T) {
	svc := &stubAuthService{
		signInFunc: func(_ context.Context, email, password string) (*service.CompleteLoginResult, error) {
			require.Equal(t, "priya@example.com", email)
			require.Equal(t, "hunter2hunter2", password)
			return testSessionResult("sess-pw"), nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	form := url.Values{
		"email":        {"priya@example.com"},
		"password":     {"hunter2hunter2"},
		"redirect_uri": {"/account"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.PasswordLogin(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/account", w.Header().Get("Location"))

	session, ok := cookieValue(t, w, SessionCookieName)
	require.True(t, ok)
	assert.Equal(t, "sess-pw", session)
}

func TestPasswordLoginDefaultsToDashboard(t *testing.T) {
	svc := &stubAuthService{
		signInFunc: func(context.Context, string, string) (*service.CompleteLoginResult, error) {
			return testSessionResult("sess-pw"), nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	form := url.Values{"email": {"priya@example.com"}, "password": {"hunter2hunter2"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.PasswordLogin(w, req)

	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestPasswordLoginBadCredentials(t *testing.T) {
	svc := &stubAuthService{
		signInFunc: func(context.Context, string, string) (*service.CompleteLoginResult, error) {
			return nil, apperrors.Unauthorized("Invalid email or password.")
		},
	}
	// Without a renderer the handler reports the failure as JSON.
	h := &AuthHandlers{Svc: svc}

	form := url.Values{"email": {"priya@example.com"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.PasswordLogin(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "login_failed")

	_, ok := cookieValue(t, w, SessionCookieName)
	assert.False(t, ok, "failed login must not set a session cookie")
}

func TestLogoutClearsSessionAndRedirects(t *testing.T) {
	var loggedOut string
	svc := &stubAuthService{
		logoutFunc: func(_ context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-out"})
	w := httptest.NewRecorder()
	h.Logout(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, "sess-out", loggedOut)

	cleared, ok := cookieValue(t, w, SessionCookieName)
	require.True(t, ok)
	assert.Empty(t, cleared)
}

func TestLogoutAnswersAJAXWithJSON(t *testing.T) {
	h := &AuthHandlers{Svc: &stubAuthService{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	w := httptest.NewRecorder()
	h.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","redirect_to":"/"}`, w.Body.String())
}

func TestStatusAuthenticated(t *testing.T) {
	h := &AuthHandlers{Svc: &stubAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	w := httptest.NewRecorder()
	h.Status(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["authenticated"])
	assert.Contains(t, body, "user")
}

func TestStatusAnonymous(t *testing.T) {
	h := &AuthHandlers{Svc: &stubAuthService{}}

	w := httptest.NewRecorder()
	h.Status(w, httptest.NewRequest(http.MethodGet, "/auth/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["authenticated"])
}
