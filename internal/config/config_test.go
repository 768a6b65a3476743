package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSetLogger(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	SetLogger(logger)
}

func TestApplyDefaults(t *testing.T) {
	config := &Config{}
	applyDefaults(config)

	if config.Backend.Mode != BackendLocal {
		t.Errorf("Expected backend mode %q, got %q", BackendLocal, config.Backend.Mode)
	}
	if config.Backend.Endpoint != "http://localhost:12700" {
		t.Errorf("Expected default endpoint, got %q", config.Backend.Endpoint)
	}
	if config.Server.Port != "12700" {
		t.Errorf("Expected port '12700', got %q", config.Server.Port)
	}
	if config.Logging.Level != "info" {
		t.Errorf("Expected log level 'info', got %q", config.Logging.Level)
	}
	if config.UI.Theme != "tokyo-night" {
		t.Errorf("Expected theme 'tokyo-night', got %q", config.UI.Theme)
	}
	if config.UI.FeedLimit != 50 {
		t.Errorf("Expected feed limit 50, got %d", config.UI.FeedLimit)
	}
	if !config.UI.ShowProfile {
		t.Error("Expected profile screen to be enabled by default")
	}
	if config.Storage.Path != "" {
		t.Errorf("Expected empty storage path, got %q", config.Storage.Path)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if config.Backend.Mode != BackendLocal {
		t.Fatalf("mode = %q", config.Backend.Mode)
	}
	if config.RequestTimeout() != 10*time.Second {
		t.Fatalf("timeout = %v", config.RequestTimeout())
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ask.yaml")
	content := `
backend:
  mode: remote
  endpoint: http://questions.internal:8080
  timeout: 3s
logging:
  level: debug
ui:
  feed_limit: 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if config.Backend.Mode != BackendRemote || config.Backend.Endpoint != "http://questions.internal:8080" {
		t.Fatalf("backend = %#v", config.Backend)
	}
	if config.RequestTimeout() != 3*time.Second {
		t.Fatalf("timeout = %v", config.RequestTimeout())
	}
	if config.Logging.Level != "debug" || config.UI.FeedLimit != 10 {
		t.Fatalf("unexpected config %#v", config)
	}
	// untouched sections keep their defaults
	if config.Server.Port != "12700" || config.UI.Theme != "tokyo-night" {
		t.Fatalf("defaults lost: %#v", config)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ask.yaml")
	if err := os.WriteFile(path, []byte("backend:\n  mode: carrier-pigeon\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ask.yaml")
	if err := os.WriteFile(path, []byte("backend: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	config := &Config{}
	applyDefaults(config)
	env := map[string]string{
		"ASK_BACKEND":    "remote",
		"ASK_ENDPOINT":   " http://example.test ",
		"ASK_LOG_LEVEL":  "warn",
		"ASK_SENTRY_DSN": "",
	}
	applyEnv(config, func(k string) string { return env[k] })

	if config.Backend.Mode != BackendRemote {
		t.Errorf("mode = %q", config.Backend.Mode)
	}
	if config.Backend.Endpoint != "http://example.test" {
		t.Errorf("endpoint = %q", config.Backend.Endpoint)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("level = %q", config.Logging.Level)
	}
	if config.Reporting.SentryDSN != "" {
		t.Errorf("empty env value should not override, got %q", config.Reporting.SentryDSN)
	}
}

func TestRequestTimeoutFallsBack(t *testing.T) {
	config := &Config{Backend: BackendConfig{Timeout: "soon"}}
	if got := config.RequestTimeout(); got != 10*time.Second {
		t.Fatalf("timeout = %v", got)
	}
}

func TestAddr(t *testing.T) {
	config := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: "9000"}}
	if got := config.Addr(); got != "127.0.0.1:9000" {
		t.Fatalf("Addr = %q", got)
	}
}
