package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/samprabha/portal/config"
	httpx "github.com/samprabha/portal/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// BuildHTTPServer assembles the router and returns a server ready to listen.
// The router applies its own middleware chain, so no wrapping happens here.
func BuildHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Documents:    cfg.Services.Documents,
		Notifier:     cfg.Services.Observability.Notifier,
		CookieDomain: appCfg.HTTP.CookieDomain,
		CORSOrigin:   appCfg.HTTP.CORSOrigin,
		LoginRate: httpx.RateLimiterConfig{
			PerMinute: appCfg.HTTP.LoginRatePerMinute,
			Burst:     appCfg.HTTP.LoginRateBurst,
		},
		Metrics:  cfg.Services.Observability.Collector,
		Gatherer: cfg.Services.Observability.Registry,
		IsDev:    appCfg.IsDev,
		Logger:   logger,
	}
	if cfg.Services.Observability.Statsd != nil {
		services.Statsd = cfg.Services.Observability.Statsd
	}

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:         addr,
		Handler:      httpx.NewRouter(services),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
