package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfProtected(t *testing.T) http.Handler {
	t.Helper()
	return CSRF()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func csrfCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CSRFCookieName {
			return c
		}
	}
	t.Fatal("no CSRF cookie issued")
	return nil
}

func TestCSRFIssuesTokenOnGet(t *testing.T) {
	w := httptest.NewRecorder()
	csrfProtected(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contact", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookie := csrfCookieFrom(t, w)
	assert.NotEmpty(t, cookie.Value)
	assert.False(t, cookie.HttpOnly)
}

func TestCSRFRejectsPostWithoutToken(t *testing.T) {
	w := httptest.NewRecorder()
	csrfProtected(t).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contact", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "csrf_validation_failed")
}

func TestCSRFAcceptsEchoedHeader(t *testing.T) {
	// First request obtains a token.
	w := httptest.NewRecorder()
	csrfProtected(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contact", nil))
	token := csrfCookieFrom(t, w).Value

	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
	req.Header.Set(CSRFHeaderName, token)

	w = httptest.NewRecorder()
	csrfProtected(t).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFAcceptsFormField(t *testing.T) {
	w := httptest.NewRecorder()
	csrfProtected(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contact", nil))
	token := csrfCookieFrom(t, w).Value

	form := url.Values{CSRFFormField: {token}, "name": {"Priya"}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})

	w = httptest.NewRecorder()
	csrfProtected(t).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFRejectsMismatchedToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "cookie-token"})
	req.Header.Set(CSRFHeaderName, "other-token")

	w := httptest.NewRecorder()
	csrfProtected(t).ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetCSRFTokenExposedToHandlers(t *testing.T) {
	var token string
	handler := CSRF()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = GetCSRFToken(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing-token"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "existing-token", token)
}

func TestGetCSRFTokenWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	assert.Empty(t, GetCSRFToken(req))
}
