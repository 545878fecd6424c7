package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"time"
)

const (
	// CSRFCookieName is the cookie holding the CSRF token.
	CSRFCookieName = "csrf_token"
	// CSRFHeaderName is the header clients echo the token back in.
	CSRFHeaderName = "X-Csrf-Token"
	// CSRFFormField is the form field fallback for plain HTML forms.
	CSRFFormField = "csrf_token"

	csrfTokenBytes   = 32
	csrfCookieMaxAge = 12 * time.Hour
)

type csrfTokenKey struct{}

// CSRF returns a middleware implementing double-submit cookie CSRF protection.
// Safe methods pass through but still get a token issued; unsafe methods must
// echo the cookie value in the X-Csrf-Token header or the csrf_token form field.
func CSRF() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, issued := ensureCSRFCookie(w, r)

			if requiresCSRFValidation(r.Method) {
				// A token issued on this request cannot have been echoed back.
				if issued || !validateCSRFToken(r, token) {
					WriteError(w, ErrorParams{
						Code:    http.StatusForbidden,
						ErrCode: "csrf_validation_failed",
						Err:     errors.New("missing or invalid CSRF token"),
					})
					return
				}
			}

			ctx := context.WithValue(r.Context(), csrfTokenKey{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCSRFToken returns the CSRF token for the current request, or "" when the
// CSRF middleware did not run.
func GetCSRFToken(r *http.Request) string {
	if token, ok := r.Context().Value(csrfTokenKey{}).(string); ok {
		return token
	}
	return ""
}

// ensureCSRFCookie returns the request's CSRF token, minting and setting a new
// cookie when absent. The second return reports whether a token was minted.
func ensureCSRFCookie(w http.ResponseWriter, r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(CSRFCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, false
	}

	token, err := generateCSRFToken()
	if err != nil {
		return "", false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(csrfCookieMaxAge.Seconds()),
		Secure:   isSecureRequest(r),
		HttpOnly: false, // must be readable by fetch clients to echo in the header
		SameSite: http.SameSiteStrictMode,
	})

	return token, true
}

func generateCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// requiresCSRFValidation reports whether the method mutates state.
func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// validateCSRFToken compares the echoed token against the cookie value in
// constant time. Header wins over form field.
func validateCSRFToken(r *http.Request, cookieToken string) bool {
	if cookieToken == "" {
		return false
	}

	echoed := r.Header.Get(CSRFHeaderName)
	if echoed == "" {
		echoed = r.PostFormValue(CSRFFormField)
	}
	if echoed == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(echoed)) == 1
}

// isSecureRequest reports whether the request arrived over TLS, directly or
// via a trusted proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
