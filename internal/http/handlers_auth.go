package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/samprabha/portal/internal/domain/auth"
	"github.com/samprabha/portal/internal/domain/model"
	apperrors "github.com/samprabha/portal/internal/errors"
	"github.com/samprabha/portal/internal/observability/metrics"
	"github.com/samprabha/portal/internal/observability/statsd"
	"github.com/samprabha/portal/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	SignUpWithPassword(ctx context.Context, req *model.CreateAccountRequest) (*service.CompleteLoginResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	VerifyToken(ctx context.Context, token string) (*domainauth.Session, error)
	UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.Account, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
	Metrics      *metrics.Collector
	Statsd       statsd.Sink
	Renderer     *TemplateRenderer
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// GoogleLogin starts the Google sign-in flow.
// GET /auth/google?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin google sign-in failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     errors.New("could not start sign-in"),
		})
		return
	}

	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	input, ok := callbackInput(w, r)
	if !ok {
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), input)
	h.recordLogin(loginAttempt{Provider: "google", Flow: "oauth_callback", Start: start, Err: err})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "complete google sign-in failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_completion_failed",
			Err:     errors.New("could not complete sign-in"),
		})
		return
	}

	h.setSessionCookie(w, r, result.Session)
	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	redirectURI := h.getPostLoginRedirect(w, r)
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// callbackInput validates the callback query parameters against the state
// and nonce cookies set when the flow began. On failure it writes a 400 and
// returns ok=false.
func callbackInput(w http.ResponseWriter, r *http.Request) (service.CompleteLoginInput, bool) {
	badRequest := func(errCode, msg string) (service.CompleteLoginInput, bool) {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: errCode, Err: errors.New(msg)})
		return service.CompleteLoginInput{}, false
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	switch {
	case code == "":
		return badRequest("missing_code", "authorization code is required")
	case state == "":
		return badRequest("missing_state", "state parameter is required")
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		return badRequest("invalid_state", "invalid or missing state parameter")
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		return badRequest("missing_nonce", "missing nonce parameter")
	}

	return service.CompleteLoginInput{Code: code, State: state, Nonce: nonceCookie.Value}, true
}

// PasswordLogin handles email/password sign-in from the login form.
// POST /auth/login.
func (h *AuthHandlers) PasswordLogin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	redirectURI := safeRedirectPath(r.PostFormValue("redirect_uri"))
	if redirectURI == "/" {
		redirectURI = "/dashboard"
	}

	if email == "" || password == "" {
		h.renderLoginError(w, r, "Email and password are required.", email, redirectURI)
		return
	}

	result, err := h.Svc.SignInWithPassword(r.Context(), email, password)
	h.recordLogin(loginAttempt{Provider: "password", Flow: "sign_in", Start: start, Err: err})
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			h.renderLoginError(w, r, "Invalid email or password.", email, redirectURI)
			return
		}
		h.logger().ErrorContext(r.Context(), "password sign-in failed", "error", err)
		h.renderLoginError(w, r, "Something went wrong. Please try again.", email, redirectURI)
		return
	}

	h.setSessionCookie(w, r, result.Session)
	http.Redirect(w, r, redirectURI, http.StatusSeeOther)
}

// Register handles email/password sign-up from the register form.
// POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := &model.CreateAccountRequest{
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Password:    r.PostFormValue("password"),
		DisplayName: strings.TrimSpace(r.PostFormValue("display_name")),
	}

	if err := req.Validate(); err != nil {
		h.renderRegisterError(w, r, err.Error(), req)
		return
	}
	if confirm := r.PostFormValue("password_confirm"); confirm != "" && confirm != req.Password {
		h.renderRegisterError(w, r, "Passwords do not match.", req)
		return
	}

	result, err := h.Svc.SignUpWithPassword(r.Context(), req)
	h.recordLogin(loginAttempt{Provider: "password", Flow: "sign_up", Start: start, Err: err})
	if err != nil {
		if apperrors.IsConflict(err) {
			h.renderRegisterError(w, r, "An account with this email already exists.", req)
			return
		}
		h.logger().ErrorContext(r.Context(), "sign-up failed", "error", err)
		h.renderRegisterError(w, r, "Something went wrong. Please try again.", req)
		return
	}

	h.setSessionCookie(w, r, result.Session)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout handles the sign-out endpoint.
// POST /auth/signout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.clearCookie(w, r, SessionCookieName)

	// AJAX requests get a JSON payload; regular requests go home
	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": "/",
		})
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		// Session is invalid or expired, clear the cookie
		h.clearCookie(w, r, SessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          sessionUserPayload(session),
		"expires_at":    session.ExpiresAt,
	})
}

// sessionUserPayload is the JSON shape for a signed-in user across endpoints.
func sessionUserPayload(s *domainauth.Session) map[string]any {
	return map[string]any{
		"id":           s.UserID,
		"email":        s.Email,
		"display_name": s.DisplayName,
		"avatar_url":   s.AvatarURL,
		"provider":     s.Provider,
		"role":         s.Role,
	}
}

// loginAttempt groups the values needed to record a sign-in outcome.
type loginAttempt struct {
	Provider string
	Flow     string
	Start    time.Time
	Err      error
}

func (h *AuthHandlers) recordLogin(a loginAttempt) {
	result := metrics.ResultSuccess
	if a.Err != nil {
		result = metrics.ResultError
		if apperrors.IsUnauthorized(a.Err) || apperrors.IsConflict(a.Err) {
			result = metrics.ResultDenied
		}
	}
	h.Metrics.RecordLogin(a.Provider, result)
	metrics.EmitAuthEvent(h.Statsd, metrics.AuthEvent{
		Provider: a.Provider,
		Flow:     a.Flow,
		Result:   result,
		Duration: time.Since(a.Start),
		Err:      a.Err,
	})
}

func (h *AuthHandlers) renderLoginError(w http.ResponseWriter, r *http.Request, msg, email, redirectURI string) {
	if h.Renderer == nil {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "login_failed", Err: errors.New(msg)})
		return
	}
	data := NewTemplateData(r, PageMeta{Title: "Sign In", CurrentPage: "login"}).
		WithError(msg).
		With("Email", email).
		With("RedirectURI", redirectURI).
		Build()
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = h.Renderer.RenderPage(w, "login", data)
}

func (h *AuthHandlers) renderRegisterError(
	w http.ResponseWriter,
	r *http.Request,
	msg string,
	req *model.CreateAccountRequest,
) {
	if h.Renderer == nil {
		WriteError(w, ErrorParams{Code: http.StatusUnprocessableEntity, ErrCode: "registration_failed", Err: errors.New(msg)})
		return
	}
	data := NewTemplateData(r, PageMeta{Title: "Create Account", CurrentPage: "register"}).
		WithError(msg).
		With("Email", req.Email).
		With("DisplayName", req.DisplayName).
		Build()
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = h.Renderer.RenderPage(w, "register", data)
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// oauthCookieParams groups values needed to set OAuth cookies.
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := isSecureRequest(r)
	cd := h.CookieDomain

	for name, value := range map[string]string{
		"oauth_state":         p.State,
		"oauth_nonce":         p.Nonce,
		"post_login_redirect": p.RedirectURI,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   cd,
			HttpOnly: true,
			Secure:   isSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   600, // 10 minutes
		})
	}
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// getPostLoginRedirect returns the post-login redirect URL and clears the
// cookie. Sign-ins without an explicit target land on the dashboard.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/dashboard"
	if redirectCookie, err := r.Cookie("post_login_redirect"); err == nil {
		if candidate := safeRedirectPath(redirectCookie.Value); candidate != "/" {
			redirectURI = candidate
		}
		h.clearCookie(w, r, "post_login_redirect")
	}
	return redirectURI
}
