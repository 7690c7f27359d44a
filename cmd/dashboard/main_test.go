package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/specfuzzer/specfuzzer/internal/config"
)

// ---------------------------------------------------------------------------
// envOrFlag
// ---------------------------------------------------------------------------

func TestEnvOrFlag_FlagPriority(t *testing.T) {
	os.Setenv("TEST_DASH_ENVORFLAG", "env-value")
	defer os.Unsetenv("TEST_DASH_ENVORFLAG")

	got := envOrFlag("flag-value", "TEST_DASH_ENVORFLAG")
	if got != "flag-value" {
		t.Errorf("envOrFlag with flag = %q, want flag-value", got)
	}
}

func TestEnvOrFlag_EnvFallback(t *testing.T) {
	os.Setenv("TEST_DASH_ENVORFLAG2", "from-env")
	defer os.Unsetenv("TEST_DASH_ENVORFLAG2")

	got := envOrFlag("", "TEST_DASH_ENVORFLAG2")
	if got != "from-env" {
		t.Errorf("envOrFlag with empty flag = %q, want from-env", got)
	}
}

func TestEnvOrFlag_BothEmpty(t *testing.T) {
	os.Unsetenv("TEST_DASH_NOEXIST")
	got := envOrFlag("", "TEST_DASH_NOEXIST")
	if got != "" {
		t.Errorf("envOrFlag both empty = %q, want empty", got)
	}
}

func TestEnvOrFlag_FlagWithWhitespace(t *testing.T) {
	got := envOrFlag("  value  ", "TEST_DASH_NOEXIST2")
	if got != "  value  " {
		t.Errorf("envOrFlag should preserve whitespace = %q", got)
	}
}

// ---------------------------------------------------------------------------
// loadConfig
// ---------------------------------------------------------------------------

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "specfuzzer.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	t.Setenv(config.EnvBackendURL, "")
	path := writeConfig(t, "backend_url: http://file:8000\ndashboard:\n  addr: 127.0.0.1:9000\n")

	cfg, err := loadConfig(path, "", "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.BackendURL != "http://file:8000" || cfg.Dashboard.Addr != "127.0.0.1:9000" {
		t.Errorf("file values not used: %+v", cfg)
	}

	cfg, err = loadConfig(path, "http://flag:8000", "127.0.0.1:9100")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.BackendURL != "http://flag:8000" || cfg.Dashboard.Addr != "127.0.0.1:9100" {
		t.Errorf("flags should win: %+v", cfg)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "backend_url: http://file:8000\n")
	t.Setenv(config.EnvBackendURL, "http://env:8000")

	cfg, err := loadConfig(path, "", "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.BackendURL != "http://env:8000" {
		t.Errorf("BackendURL = %q, want env value", cfg.BackendURL)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv(config.EnvBackendURL, "")
	path := writeConfig(t, "backend_url: ftp://nope\n")
	if _, err := loadConfig(path, "", ""); err == nil {
		t.Error("expected validation error")
	}
	if _, err := loadConfig(path, "http://ok:8000", "not-an-addr"); err == nil {
		t.Error("expected validation error for addr flag")
	}
}

// ---------------------------------------------------------------------------
// newServer
// ---------------------------------------------------------------------------

func TestNewServer(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	}))
	defer backend.Close()

	cfg := config.NewDefaultConfig()
	cfg.BackendURL = backend.URL
	srv := newServer(cfg, "", zap.NewNop())

	if srv.Addr != config.DefaultDashboardAddr {
		t.Errorf("Addr = %q", srv.Addr)
	}

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"backend_status": "ok"`) {
		t.Errorf("health body = %s", w.Body.String())
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("security headers should wrap every route")
	}
}
