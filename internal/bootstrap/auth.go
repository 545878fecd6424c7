package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/samprabha/portal/config"
	"github.com/samprabha/portal/internal/adapters/adminlist"
	"github.com/samprabha/portal/internal/adapters/devauth"
	"github.com/samprabha/portal/internal/adapters/oidc"
	redisadapter "github.com/samprabha/portal/internal/adapters/redis"
	"github.com/samprabha/portal/internal/core"
	"github.com/samprabha/portal/internal/ports"
	"github.com/samprabha/portal/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Accounts    core.AccountRepository
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	// Redis session store and the admin allow-list mapper are shared by both modes
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")
	roleMapper := adminlist.NewEmailRoleMapper(cfg.Auth.AdminEmails)

	var provider ports.AuthProvider
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		provider = buildDevAuthProvider(cfg)
	case config.AuthModeOAuth:
		provider = buildOIDCProvider(cfg)
	default:
		return nil
	}
	if provider == nil {
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:   provider,
		Sessions:   sessionStore,
		Roles:      roleMapper,
		Accounts:   cfg.Accounts,
		SessionTTL: cfg.Auth.SessionTTL,
	})
}

//nolint:ireturn // ports.AuthProvider keeps the mode selection in one place.
func buildDevAuthProvider(cfg AuthConfig) ports.AuthProvider {
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:      cfg.Auth.DevAuth.UserID,
		Email:       cfg.Auth.DevAuth.Email,
		DisplayName: cfg.Auth.DevAuth.DisplayName,
		// session duration defaults inside provider
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil
	}
	return prov
}

//nolint:ireturn // ports.AuthProvider keeps the mode selection in one place.
func buildOIDCProvider(cfg AuthConfig) ports.AuthProvider {
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return nil
	}
	return prov
}
