package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMode_UnmarshalText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    AuthMode
		wantErr bool
	}{
		{name: "oauth", input: "oauth", want: AuthModeOAuth},
		{name: "mock", input: "mock", want: AuthModeMock},
		{name: "uppercase normalised", input: "OAuth", want: AuthModeOAuth},
		{name: "invalid", input: "saml", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestAuthConfig_Sanitize_TrimsAdminEmails(t *testing.T) {
	t.Parallel()

	cfg := AuthConfig{
		AdminEmails: []string{" admin@samprabha.com ", "", "abhaymallick2002@gmail.com", "  "},
		SessionTTL:  time.Hour,
	}
	cfg.Sanitize()

	assert.Equal(t, []string{"admin@samprabha.com", "abhaymallick2002@gmail.com"}, cfg.AdminEmails)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestAuthConfig_Sanitize_ClampsSessionTTL(t *testing.T) {
	t.Parallel()

	cfg := AuthConfig{SessionTTL: time.Second}
	cfg.Sanitize()

	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	t.Parallel()

	cfg := HTTPConfig{LoginRatePerMinute: 0, LoginRateBurst: 0}
	cfg.Sanitize()

	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, 10, cfg.LoginRatePerMinute)
	assert.Equal(t, 10, cfg.LoginRateBurst)
}

func TestObservabilityMetricsConfig_Sanitize_DisablesWithoutAddress(t *testing.T) {
	t.Parallel()

	cfg := ObservabilityMetricsConfig{StatsdEnabled: true, StatsdAddress: "   "}
	cfg.Sanitize()

	assert.False(t, cfg.StatsdIsEnabled())
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	cfg := AppConfig{}
	t.Setenv("APP_ENV", "development")
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)
}
