package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://samprabha.com").
	// Used for generating absolute URLs in OAuth redirects.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// CORSOrigin is the allowed origin for the relay API endpoints under
	// /api. The relay exists for non-browser clients so the default is
	// permissive.
	CORSOrigin string `env:"API_CORS_ORIGIN" envDefault:"*"`

	// LoginRatePerMinute caps credential attempts per client IP.
	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`

	// LoginRateBurst is the burst size for the login rate limiter.
	LoginRateBurst int `env:"LOGIN_RATE_BURST" envDefault:"10"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.CORSOrigin == "" {
		h.CORSOrigin = "*"
	}
	if h.LoginRatePerMinute < 1 {
		h.LoginRatePerMinute = 10
	}
	if h.LoginRateBurst < 1 {
		h.LoginRateBurst = h.LoginRatePerMinute
	}
}
