package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/samprabha/portal/internal/domain/auth"
)

// RelayHandlers serves the JSON relay API under /api. The relay exists for
// non-browser clients; authentication is a bearer token carrying the session
// ID, with the session cookie accepted as a fallback.
type RelayHandlers struct {
	Svc AuthServiceInterface
}

// Health reports liveness for relay clients.
// GET /api/health.
func (h *RelayHandlers) Health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// User returns the authenticated user for the presented credentials.
// GET /api/auth/user.
func (h *RelayHandlers) User(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFromRequest(r)
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("missing or invalid credentials"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":       sessionUserPayload(session),
		"expires_at": session.ExpiresAt,
	})
}

// Signout invalidates the presented session.
// POST /api/auth/signout.
func (h *RelayHandlers) Signout(w http.ResponseWriter, r *http.Request) {
	sessionID := credentialFromRequest(r)
	if sessionID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("missing credentials"),
		})
		return
	}

	if err := h.Svc.Logout(r.Context(), sessionID); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "signout_failed",
			Err:     errors.New("could not sign out"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Verify validates a bearer token and returns the identity it maps to.
// GET|POST /api/auth/verify.
func (h *RelayHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if token == "" && r.Method == http.MethodPost {
		var body struct {
			Token string `json:"token"`
		}
		if !DecodeJSON(w, r, &body) {
			return
		}
		token = body.Token
	}
	if token == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "missing_token",
			Err:     errors.New("bearer token is required"),
		})
		return
	}

	session, err := h.Svc.VerifyToken(r.Context(), token)
	if err != nil {
		WriteJSON(w, http.StatusUnauthorized, map[string]any{"valid": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"valid":      true,
		"user":       sessionUserPayload(session),
		"expires_at": session.ExpiresAt,
	})
}

// sessionFromRequest resolves the presented credentials to a live session.
func (h *RelayHandlers) sessionFromRequest(r *http.Request) *domainauth.Session {
	sessionID := credentialFromRequest(r)
	if sessionID == "" {
		return nil
	}
	session, err := h.Svc.GetSession(r.Context(), sessionID)
	if err != nil {
		return nil
	}
	return session
}

// credentialFromRequest returns the bearer token, falling back to the session
// cookie for same-origin callers.
func credentialFromRequest(r *http.Request) string {
	if token := BearerToken(r); token != "" {
		return token
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
