package bootstrap

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samprabha/portal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildAuthServiceReturnsNilWithoutRedis(t *testing.T) {
	tests := []struct {
		name string
		auth config.AuthConfig
	}{
		{
			name: "dev auth mode",
			auth: config.AuthConfig{
				Mode:        config.AuthModeMock,
				AdminEmails: []string{"admin@example.com"},
				DevAuth: config.DevAuthConfig{
					UserID: "dev",
					Email:  "dev@example.com",
				},
				SessionTTL: 12 * time.Hour,
			},
		},
		{
			name: "oauth mode",
			auth: config.AuthConfig{
				Mode:        config.AuthModeOAuth,
				AdminEmails: []string{"admin@example.com"},
				OAuth: config.OAuthConfig{
					ClientID:     "client-id",
					ClientSecret: "client-secret",
					DiscoveryURL: "https://issuer.example.com",
					RedirectURL:  "https://app.example.com/auth/callback",
					Scope:        "openid",
				},
				SessionTTL: 12 * time.Hour,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AuthConfig{
				Auth:        tt.auth,
				RedisClient: nil,
				Logger:      testLogger(),
			}

			if svc := BuildAuthService(cfg); svc != nil {
				t.Fatalf("BuildAuthService() = %v, want nil", svc)
			}
		})
	}
}

func TestBuildAuthServiceMockModeWithRedis(t *testing.T) {
	// The client is never dialed; session stores connect lazily.
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	t.Cleanup(func() { _ = client.Close() })

	cfg := AuthConfig{
		Auth: config.AuthConfig{
			Mode:        config.AuthModeMock,
			AdminEmails: []string{"admin@example.com"},
			DevAuth: config.DevAuthConfig{
				UserID:      "dev",
				Email:       "dev@example.com",
				DisplayName: "Dev User",
			},
			SessionTTL: 12 * time.Hour,
		},
		RedisClient: client,
		Logger:      testLogger(),
	}

	if svc := BuildAuthService(cfg); svc == nil {
		t.Fatal("BuildAuthService() = nil, want service")
	}
}

func TestBuildAuthServiceOAuthModeMissingConfig(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	t.Cleanup(func() { _ = client.Close() })

	cfg := AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeOAuth,
			OAuth: config.OAuthConfig{
				ClientID: "client-id",
				// no client secret or discovery URL
			},
			SessionTTL: 12 * time.Hour,
		},
		RedisClient: client,
		Logger:      testLogger(),
	}

	if svc := BuildAuthService(cfg); svc != nil {
		t.Fatalf("BuildAuthService() = %v, want nil", svc)
	}
}
