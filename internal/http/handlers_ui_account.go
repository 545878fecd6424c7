package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/samprabha/portal/internal/domain/model"
	apperrors "github.com/samprabha/portal/internal/errors"
)

// AccountHandlers serves the signed-in pages and the login/register forms.
type AccountHandlers struct {
	Renderer  *TemplateRenderer
	Auth      AuthServiceInterface
	Documents DocumentServiceInterface
	Logger    *slog.Logger
}

func (h *AccountHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage renders the sign-in form. Signed-in visitors are sent to the
// dashboard instead.
// GET /login?redirect_uri=<optional_redirect>.
func (h *AccountHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	data := NewTemplateData(r, PageMeta{Title: "Sign In", CurrentPage: "login"}).
		With("RedirectURI", redirectURI).
		With("Email", "").
		Build()
	h.render(w, r, "login", data)
}

// RegisterPage renders the sign-up form.
// GET /register.
func (h *AccountHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := NewTemplateData(r, PageMeta{Title: "Create Account", CurrentPage: "register"}).
		With("Email", "").
		With("DisplayName", "").
		Build()
	h.render(w, r, "register", data)
}

// Dashboard renders the signed-in user's document list.
// GET /dashboard.
func (h *AccountHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	docs, err := h.Documents.ListOwn(r.Context(), session)
	data := NewTemplateData(r, PageMeta{Title: "My Documents", CurrentPage: "dashboard"})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "dashboard document load failed", "error", err)
		data.WithError("Could not load your documents. Please try again.")
	} else {
		data.With("Documents", docs)
	}
	h.render(w, r, "dashboard", data.Build())
}

// ProfilePage renders the profile form.
// GET /profile.
func (h *AccountHandlers) ProfilePage(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "My Profile", CurrentPage: "profile"}).Build()
	h.render(w, r, "profile", data)
}

// UpdateProfile applies profile edits from the form.
// POST /profile.
func (h *AccountHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	req := model.UpdateProfileRequest{}
	if name := strings.TrimSpace(r.PostFormValue("display_name")); name != "" {
		req.DisplayName = &name
	}
	if avatar := strings.TrimSpace(r.PostFormValue("avatar_url")); avatar != "" {
		req.AvatarURL = &avatar
	}

	data := NewTemplateData(r, PageMeta{Title: "My Profile", CurrentPage: "profile"})

	if err := req.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.render(w, r, "profile", data.WithError(err.Error()).Build())
		return
	}

	account, err := h.Auth.UpdateProfile(r.Context(), session.UserID, req)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Google-only identities may not have an account row yet.
			w.WriteHeader(http.StatusUnprocessableEntity)
			h.render(w, r, "profile", data.WithError("Profile editing is not available for this account.").Build())
			return
		}
		h.logger().ErrorContext(r.Context(), "profile update failed", "error", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.render(w, r, "profile", data.WithError("Could not save your profile. Please try again.").Build())
		return
	}

	// The session snapshot is stale until the next sign-in; show the saved
	// values from the account row.
	if req.DisplayName != nil {
		session.DisplayName = account.DisplayName
	}
	if req.AvatarURL != nil && account.AvatarURL != nil {
		session.AvatarURL = *account.AvatarURL
	}
	h.render(w, r, "profile", data.WithSuccess("Profile saved.").Build())
}

func (h *AccountHandlers) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	if err := h.Renderer.RenderPage(w, page, data); err != nil {
		h.logger().ErrorContext(r.Context(), "page render failed", "page", page, "error", err)
	}
}
