// Package config loads the portal's configuration from environment
// variables via github.com/caarlos0/env. Each domain area lives in its own
// file: auth.go (authentication and the admin allow list), database.go
// (Postgres and Redis), http.go (server and rate limits), observability.go
// (metrics, statsd, Slack).
package config

import (
	"os"
	"strings"
)

// AppConfig composes the per-domain configuration structs.
type AppConfig struct {
	// IsDev enables development behavior: template hot reloading, verbose
	// error pages, and the config-driven dev auth provider.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth AuthConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig

	Observability ObservabilityConfig
}

// Sanitize normalizes and bounds the values read from the environment.
// Call it once, right after env parsing.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()

	// APP_ENV=development is accepted as an alternative to DEV=true for
	// platforms that only expose an environment name.
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
