package httpx

import (
	"bytes"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	portal "github.com/samprabha/portal"
	domainauth "github.com/samprabha/portal/internal/domain/auth"
	"github.com/samprabha/portal/internal/observability/metrics"
	"github.com/samprabha/portal/internal/observability/notify"
	"github.com/samprabha/portal/internal/observability/statsd"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      AuthServiceInterface
	Documents DocumentServiceInterface
	Notifier  notify.Sink

	CookieDomain string
	CORSOrigin   string
	LoginRate    RateLimiterConfig

	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
	Statsd   statsd.Sink

	IsDev  bool         // Development mode flag for template hot reloading
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures the portal HTTP handler.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	renderer := setupRenderer(services)

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
		Metrics:      services.Metrics,
		Statsd:       services.Statsd,
		Renderer:     renderer,
	}
	relayHandlers := &RelayHandlers{Svc: services.Auth}
	documentHandlers := &DocumentHandlers{Svc: services.Documents, Metrics: services.Metrics}
	marketingHandlers := &MarketingHandlers{
		Renderer: renderer,
		Notifier: services.Notifier,
		Metrics:  services.Metrics,
		Logger:   services.Logger,
	}
	accountHandlers := &AccountHandlers{
		Renderer:  renderer,
		Auth:      services.Auth,
		Documents: services.Documents,
		Logger:    services.Logger,
	}
	adminHandlers := &AdminHandlers{
		Renderer:  renderer,
		Documents: services.Documents,
		Metrics:   services.Metrics,
		Logger:    services.Logger,
	}

	loginLimiter := NewLoginRateLimiter(services.LoginRate)

	registerMarketingRoutes(mux, marketingHandlers, services.Auth)
	registerAuthRoutes(mux, authHandlers, accountHandlers, routeDeps{Auth: services.Auth, Limiter: loginLimiter})
	registerAccountRoutes(mux, accountHandlers, services.Auth)
	registerAdminRoutes(mux, adminHandlers, services.Auth)
	registerRelayRoutes(mux, relayHandlers, documentHandlers, services.Auth)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if services.Gatherer != nil {
		mux.Handle("GET /metrics", metrics.Handler(services.Gatherer))
	}

	// Wrap with NotFound handler for friendly 404 pages
	var handler http.Handler = &notFoundHandler{mux: mux, renderer: renderer, logger: services.Logger}

	// The relay API authenticates with bearer tokens and serves cross-origin
	// clients; everything else is cookie-authenticated browser traffic and
	// gets CSRF protection.
	apiHandler := CORS(CORSConfig{AllowedOrigin: services.CORSOrigin})(handler)
	uiHandler := CSRF()(handler)
	handler = splitHandler(apiHandler, uiHandler)

	handler = BrowserDetection()(handler)
	handler = Compression()(handler)
	if services.Metrics != nil || services.Logger != nil {
		handler = Logging(loggerOrDefault(services.Logger), services.Metrics)(handler)
	}
	handler = Recover(loggerOrDefault(services.Logger))(handler)

	return handler
}

type routeDeps struct {
	Auth    AuthServiceInterface
	Limiter *LoginRateLimiter
}

func registerMarketingRoutes(mux *http.ServeMux, h *MarketingHandlers, auth AuthServiceInterface) {
	optionalAuth := OptionalAuth(auth)
	mux.Handle("GET /{$}", optionalAuth(http.HandlerFunc(h.Home)))
	mux.Handle("GET /services", optionalAuth(http.HandlerFunc(h.Services)))
	mux.Handle("GET /analytical-testing", optionalAuth(http.HandlerFunc(h.AnalyticalTesting)))
	mux.Handle("GET /about", optionalAuth(http.HandlerFunc(h.About)))
	mux.Handle("GET /contact", optionalAuth(http.HandlerFunc(h.Contact)))
	mux.Handle("POST /contact", optionalAuth(http.HandlerFunc(h.SubmitInquiry)))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, pages *AccountHandlers, deps routeDeps) {
	optionalAuth := OptionalAuth(deps.Auth)
	mux.Handle("GET /login", optionalAuth(http.HandlerFunc(pages.LoginPage)))
	mux.Handle("GET /register", optionalAuth(http.HandlerFunc(pages.RegisterPage)))

	mux.Handle("POST /auth/login", deps.Limiter.Middleware(http.HandlerFunc(h.PasswordLogin)))
	mux.Handle("POST /auth/register", deps.Limiter.Middleware(http.HandlerFunc(h.Register)))
	mux.HandleFunc("GET /auth/google", h.GoogleLogin)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/signout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerAccountRoutes(mux *http.ServeMux, h *AccountHandlers, auth AuthServiceInterface) {
	requireAuth := RequireAuthBrowser(auth)
	mux.Handle("GET /dashboard", requireAuth(http.HandlerFunc(h.Dashboard)))
	mux.Handle("GET /profile", requireAuth(http.HandlerFunc(h.ProfilePage)))
	mux.Handle("POST /profile", requireAuth(http.HandlerFunc(h.UpdateProfile)))
}

func registerAdminRoutes(mux *http.ServeMux, h *AdminHandlers, auth AuthServiceInterface) {
	requireAdmin := RequireRoleBrowser(auth, domainauth.RoleAdmin)
	mux.Handle("GET /admin", requireAdmin(http.HandlerFunc(h.Dashboard)))
	mux.Handle("POST /admin/documents", requireAdmin(http.HandlerFunc(h.CreateDocument)))
	mux.Handle("POST /admin/documents/{id}/status", requireAdmin(http.HandlerFunc(h.UpdateDocumentStatus)))
	mux.Handle("POST /admin/documents/{id}/delete", requireAdmin(http.HandlerFunc(h.DeleteDocument)))
}

func registerRelayRoutes(mux *http.ServeMux, relay *RelayHandlers, docs *DocumentHandlers, auth AuthServiceInterface) {
	mux.HandleFunc("GET /api/health", relay.Health)
	mux.HandleFunc("GET /api/auth/user", relay.User)
	mux.HandleFunc("POST /api/auth/signout", relay.Signout)
	mux.HandleFunc("GET /api/auth/verify", relay.Verify)
	mux.HandleFunc("POST /api/auth/verify", relay.Verify)

	requireAuth := RequireAuth(auth)
	requireAdmin := RequireRole(auth, domainauth.RoleAdmin)
	mux.Handle("GET /api/documents/mine", requireAuth(http.HandlerFunc(docs.ListMine)))
	mux.Handle("GET /api/documents", requireAdmin(http.HandlerFunc(docs.List)))
	mux.Handle("POST /api/documents", requireAdmin(http.HandlerFunc(docs.Create)))
	mux.Handle("PATCH /api/documents/{id}/status", requireAdmin(http.HandlerFunc(docs.UpdateStatus)))
	mux.Handle("DELETE /api/documents/{id}", requireAdmin(http.HandlerFunc(docs.Delete)))
}

// setupRenderer creates the template renderer.
// In dev mode templates are loaded from disk for hot reloading; in production
// they come from the embedded FS.
func setupRenderer(services RouterServices) *TemplateRenderer {
	var templateFS fs.FS
	if services.IsDev {
		templateFS = os.DirFS("templates")
	} else {
		sub, err := fs.Sub(portal.TemplateFS, "templates")
		if err != nil {
			log.Printf("failed to create sub-filesystem for templates: %v; falling back to disk", err)
			sub = os.DirFS("templates")
		}
		templateFS = sub
	}

	renderer, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		DevMode:    services.IsDev,
		Logger:     services.Logger,
	})
	if err != nil {
		if services.Logger != nil {
			services.Logger.Error("failed to create template renderer", slog.Any("error", err))
		} else {
			log.Printf("ERROR: failed to create template renderer: %v", err)
		}
		return nil
	}
	return renderer
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

// splitHandler routes /api traffic to the relay chain and everything else to
// the browser chain.
func splitHandler(api, ui http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			api.ServeHTTP(w, r)
			return
		}
		ui.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux      *http.ServeMux
	renderer *TemplateRenderer
	logger   *slog.Logger
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter(w)
	h.mux.ServeHTTP(cw, r)

	if cw.status == http.StatusNotFound && !strings.HasPrefix(r.URL.Path, "/api/") {
		h.renderNotFound(w, r)
		return
	}

	cw.flushTo(w)
}

func (h *notFoundHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil || !IsBrowserRequest(r) {
		http.NotFound(w, r)
		return
	}
	data := NewTemplateData(r, PageMeta{Title: "Page Not Found", CurrentPage: ""}).
		With("Status", http.StatusNotFound).
		With("Message", "The page you are looking for does not exist.").
		Build()
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.RenderError(w, data); err != nil && h.logger != nil {
		h.logger.Error("not found render failed", slog.Any("error", err))
	}
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		log.Printf("failed to write captured response: %v", err)
	}
}
