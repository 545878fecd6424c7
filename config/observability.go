package config

import "strings"

// ObservabilityConfig groups configuration that controls metrics emission and
// outbound notifications.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
	Slack   SlackConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.Slack.Sanitize()
}

// SlackConfig controls delivery of contact form inquiries to a Slack channel.
// Delivery is disabled when WebhookURL is empty.
type SlackConfig struct {
	WebhookURL string `env:"SLACK_WEBHOOK_URL"`
	Channel    string `env:"SLACK_CHANNEL"  envDefault:""`
	Username   string `env:"SLACK_USERNAME" envDefault:"samprabha-portal"`
}

// Sanitize trims whitespace from Slack settings.
func (c *SlackConfig) Sanitize() {
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
	c.Channel = strings.TrimSpace(c.Channel)
	c.Username = strings.TrimSpace(c.Username)
}

// Enabled reports whether inquiry notifications should be delivered.
func (c *SlackConfig) Enabled() bool { return c.WebhookURL != "" }

// ObservabilityMetricsConfig controls emission of metrics. Request timings go
// to StatsD when enabled; Prometheus counters are always registered and served
// at /metrics.
type ObservabilityMetricsConfig struct {
	StatsdEnabled bool   `env:"OBSERVABILITY_METRICS_STATSD_ENABLED" envDefault:"false"`
	StatsdAddress string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.StatsdEnabled = false
	}
}

// StatsdIsEnabled returns true when StatsD emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) StatsdIsEnabled() bool {
	return c.StatsdEnabled && c.StatsdAddress != ""
}
