package httpx

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	domainauth "github.com/samprabha/portal/internal/domain/auth"
	"github.com/samprabha/portal/internal/observability/metrics"
	"golang.org/x/time/rate"
)

// SessionCookieName is the name of the session cookie. The session ID doubles
// as the bearer token on the relay API.
const SessionCookieName = "session_id"

// Logging returns a middleware that logs HTTP requests and records them with
// the optional metrics collector.
func Logging(logger *slog.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.code),
				slog.Duration("duration", elapsed),
			)
			if collector != nil {
				collector.RecordRequest(routeLabel(r), rec.code, elapsed)
			}
		})
	}
}

// routeLabel collapses the request path into a low-cardinality metric label.
func routeLabel(r *http.Request) string {
	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/api/documents"):
		path = "/api/documents"
	case strings.HasPrefix(path, "/api/auth"):
		path = "/api/auth"
	case strings.HasPrefix(path, "/auth"):
		path = "/auth"
	case strings.HasPrefix(path, "/admin"):
		path = "/admin"
	}
	return r.Method + " " + path
}

// statusRecorder captures the response code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// Recover converts handler panics into 500 responses and logs the stack.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				logger.Error("panic",
					slog.Any("error", v),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// guardConfig selects how an auth guard rejects requests. When role is set
// the session must meet it; when browserAware is set, rejected browser
// requests are redirected instead of getting a JSON error.
type guardConfig struct {
	role         domainauth.Role
	checkRole    bool
	browserAware bool
}

// guard builds the shared auth middleware. Every variant resolves the
// session the same way and differs only in how it turns away requests.
func guard(authSvc AuthServiceInterface, cfg guardConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromRequest(r, authSvc)
			if session == nil {
				if cfg.browserAware && IsBrowserRequest(r) {
					redirectToLogin(w, r)
					return
				}
				denyUnauthenticated(w)
				return
			}

			if cfg.checkRole && roleRank(session.Role) < roleRank(cfg.role) {
				if cfg.browserAware && IsBrowserRequest(r) {
					http.Error(w, "Access Denied: You don't have permission to access this resource", http.StatusForbidden)
					return
				}
				denyForbidden(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
		})
	}
}

// RequireAuth rejects unauthenticated requests with a 401 JSON error.
func RequireAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return guard(authSvc, guardConfig{})
}

// RequireRole rejects unauthenticated requests with 401 and authenticated
// requests below requiredRole with 403, both as JSON errors.
func RequireRole(authSvc AuthServiceInterface, requiredRole domainauth.Role) func(http.Handler) http.Handler {
	return guard(authSvc, guardConfig{role: requiredRole, checkRole: true})
}

// RequireAuthBrowser behaves like RequireAuth for API clients but redirects
// unauthenticated browser requests to the login page.
func RequireAuthBrowser(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return guard(authSvc, guardConfig{browserAware: true})
}

// RequireRoleBrowser behaves like RequireRole for API clients but redirects
// unauthenticated browsers to login and shows a plain access-denied page on
// insufficient role.
func RequireRoleBrowser(authSvc AuthServiceInterface, requiredRole domainauth.Role) func(http.Handler) http.Handler {
	return guard(authSvc, guardConfig{role: requiredRole, checkRole: true, browserAware: true})
}

// OptionalAuth attaches the session to the context when one resolves and
// passes the request through either way.
func OptionalAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := sessionFromRequest(r, authSvc); session != nil {
				r = r.WithContext(withSession(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func denyUnauthenticated(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

func denyForbidden(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: "insufficient_permissions",
		Err:     errors.New("insufficient permissions"),
	})
}

// sessionFromRequest resolves and validates the request's session. The
// session cookie wins over the Authorization header; relay API clients send
// "Bearer <session id>".
func sessionFromRequest(r *http.Request, authSvc AuthServiceInterface) *domainauth.Session {
	sessionID := ""
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		sessionID = cookie.Value
	}
	if sessionID == "" {
		sessionID = BearerToken(r)
	}
	if sessionID == "" {
		return nil
	}

	session, err := authSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		return nil
	}
	return session
}

// BearerToken extracts the bearer token from the Authorization header.
// Returns the empty string when the header is absent or malformed.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// roleRank orders roles for guard checks. Unknown roles rank below every
// known role and above no requirement at all, so they satisfy nothing.
func roleRank(role domainauth.Role) int {
	switch role {
	case domainauth.RoleAdmin:
		return 2
	case domainauth.RoleUser:
		return 1
	default:
		return 0
	}
}

type browserRequestKey struct{}

// BrowserDetection classifies each request as browser or API once, up front,
// and stashes the answer on the context. Error rendering downstream picks
// HTML or JSON from it.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, detectBrowser(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest reports whether the request came from a browser. When the
// detection middleware did not run, the request is classified directly.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return detectBrowser(r)
}

// detectBrowser treats everything under /api/ as non-browser; other routes
// count as browser unless the Accept header rules out HTML.
func detectBrowser(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}

// redirectToLogin sends browsers to the login page, carrying the current URL
// so the flow can return the user where they started.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	loginURL := "/login?redirect_uri=" + url.QueryEscape(redirectPath)
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}

// CORSConfig holds configuration for the relay API CORS middleware.
type CORSConfig struct {
	// AllowedOrigin is the value for Access-Control-Allow-Origin.
	AllowedOrigin string
}

// CORS returns a middleware that answers preflight requests and attaches CORS
// headers for the relay API. The relay exists for non-browser and cross-origin
// clients, so the origin policy is configurable rather than same-origin.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	origin := cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiterConfig bounds credential attempts per client IP.
type RateLimiterConfig struct {
	PerMinute int
	Burst     int
}

// LoginRateLimiter limits state-changing auth requests per client IP using a
// token bucket. Buckets are kept in memory; entries for idle IPs are pruned
// opportunistically.
type LoginRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginRateLimiter constructs a LoginRateLimiter from config.
func NewLoginRateLimiter(cfg RateLimiterConfig) *LoginRateLimiter {
	perMinute := cfg.PerMinute
	if perMinute < 1 {
		perMinute = 10
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = perMinute
	}
	return &LoginRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

// Allow reports whether the client identified by ip may make another attempt.
func (l *LoginRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()

	if len(l.visitors) > 1024 {
		l.pruneLocked()
	}

	return v.limiter.Allow()
}

func (l *LoginRateLimiter) pruneLocked() {
	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}

// Middleware wraps a handler with the rate limit check.
func (l *LoginRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			WriteError(w, ErrorParams{
				Code:    http.StatusTooManyRequests,
				ErrCode: "rate_limited",
				Err:     errors.New("too many attempts, slow down"),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client IP, trusting the leftmost X-Forwarded-For hop
// when present.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Compression returns a middleware that gzips compressible responses when the
// client accepts gzip encoding.
func Compression() func(http.Handler) http.Handler {
	pool := &sync.Pool{New: func() any { return gzip.NewWriter(io.Discard) }}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Accept-Encoding")
			gw, _ := pool.Get().(*gzip.Writer)
			gzw := &gzipResponseWriter{ResponseWriter: w, gz: gw, pool: pool}
			defer gzw.close()
			next.ServeHTTP(gzw, r)
		})
	}
}

var compressibleTypes = map[string]bool{
	"text/html":              true,
	"text/css":               true,
	"text/plain":             true,
	"text/javascript":        true,
	"application/javascript": true,
	"application/json":       true,
	"image/svg+xml":          true,
}

// gzipResponseWriter wraps http.ResponseWriter to compress the response body.
// The compression decision is made at WriteHeader time from the Content-Type.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz            *gzip.Writer
	pool          *sync.Pool
	headerWritten bool
	compressing   bool
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.headerWritten {
		return
	}
	w.headerWritten = true

	noBody := statusCode < 200 || statusCode == http.StatusNoContent || statusCode == http.StatusNotModified
	contentType := w.Header().Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))

	if !noBody && w.Header().Get("Content-Encoding") == "" && compressibleTypes[contentType] {
		w.compressing = true
		w.gz.Reset(w.ResponseWriter)
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
	}

	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.headerWritten {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(b))
		}
		w.WriteHeader(http.StatusOK)
	}
	if w.compressing {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *gzipResponseWriter) close() {
	if w.compressing {
		_ = w.gz.Close()
	}
	w.gz.Reset(io.Discard)
	w.pool.Put(w.gz)
}

// Flush implements http.Flusher for streaming support.
func (w *gzipResponseWriter) Flush() {
	if w.compressing {
		_ = w.gz.Flush()
	}
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
