package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestCleanMetricName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" auth/event ":   "auth_event",
		"auth..duration": "auth.duration",
		"two  words":     "two__words",
		"a/b/c":          "a_b_c",
		"..dotted..":     "dotted",
		"":               "",
	}

	for input, want := range tests {
		if got := cleanMetricName(input); got != want {
			t.Fatalf("cleanMetricName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestQualifyAppliesPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{"portal", "auth.event", "portal.auth.event"},
		{"portal", "", "portal"},
		{"", "auth.event", "auth.event"},
		{"  portal. ", "auth.event", "portal.auth.event"},
	}

	for _, tt := range tests {
		client, err := NewClient(Config{Prefix: tt.prefix})
		if err != nil {
			t.Fatalf("NewClient error: %v", err)
		}
		if got := client.qualify(tt.name); got != tt.want {
			t.Fatalf("qualify(%q) with prefix %q = %q, want %q", tt.name, tt.prefix, got, tt.want)
		}
	}
}

func TestRenderTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{
		"env": "prod",
		// Padded key/value to check trimming.
		" service ": " portal ",
	}
	local := map[string]string{
		"result": " success ",
		"":       "ignored",
		"env":    "stage",
	}

	got := renderTags(global, local)
	want := "|#env:stage,result:success,service:portal"

	if got != want {
		t.Fatalf("renderTags mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderTagsEmpty(t *testing.T) {
	t.Parallel()

	if got := renderTags(nil, nil); got != "" {
		t.Fatalf("renderTags(nil, nil) = %q, want empty string", got)
	}
}

func TestCopyTagsReturnsIndependentMap(t *testing.T) {
	t.Parallel()

	original := map[string]string{
		"env": "prod",
		"":    "ignored",
	}

	cp := copyTags(original)
	if cp == nil {
		t.Fatal("copyTags returned nil map")
	}

	cp["env"] = "stage"
	if original["env"] != "prod" {
		t.Fatal("copyTags did not copy values")
	}
	if _, ok := cp[""]; ok {
		t.Fatal("copyTags kept empty key")
	}
}

func TestClientEnabledAndClose(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{
		enabled: true,
		conn:    clientConn,
	}

	if !client.Enabled() {
		t.Fatal("expected client.Enabled to report true with active connection")
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if client.Enabled() {
		t.Fatal("expected client.Enabled to report false after Close")
	}

	// Close must be idempotent.
	if err := client.Close(); err != nil {
		t.Fatalf("Close (second call) error: %v", err)
	}

	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatal("nil client should report disabled")
	}
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil client Close error: %v", err)
	}
}

func TestDisabledClientSwallowsWrites(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: false, Address: "127.0.0.1:8125"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	// None of these may panic or dial anything.
	client.Count("auth.event", 1, nil)
	client.Gauge("sessions.active", 4, nil)
	client.Timing("auth.duration", 25*time.Millisecond, nil)

	if client.Enabled() {
		t.Fatal("expected disabled client")
	}
}

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{
		Enabled: true,
		Address: "   ",
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	if client.Enabled() {
		t.Fatal("expected client to stay disabled when address is empty")
	}
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{
		Enabled: true,
		Address: "bad address",
	})
	if err == nil {
		t.Fatal("expected NewClient to error for invalid address")
	}
	if !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("unexpected error: %v", err)
	}
}
