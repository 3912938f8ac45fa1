package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/joestump/gift-certs/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GIFTS_DB_DRIVER", "sqlite3")
	t.Setenv("GIFTS_DB_DSN", "gift-certs.db")
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ReadTimeout != 15*time.Second || cfg.HTTP.WriteTimeout != 15*time.Second {
		t.Errorf("timeouts = %v/%v, want 15s/15s", cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)
	}
	if !slices.Equal(cfg.HTTP.CORSOrigins, []string{"*"}) {
		t.Errorf("cors origins = %v, want [*]", cfg.HTTP.CORSOrigins)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log = %s/%s, want info/json", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.List.MaxPageSize != 200 {
		t.Errorf("max page size = %d, want 200", cfg.List.MaxPageSize)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("GIFTS_HTTP_ADDR", ":9090")
	t.Setenv("GIFTS_HTTP_CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("GIFTS_LOG_FORMAT", "console")
	t.Setenv("GIFTS_LIST_MAX_PAGE_SIZE", "50")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.HTTP.Addr)
	}
	if !slices.Equal(cfg.HTTP.CORSOrigins, []string{"https://a.example.com", "https://b.example.com"}) {
		t.Errorf("cors origins = %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("log format = %q, want console", cfg.Log.Format)
	}
	if cfg.List.MaxPageSize != 50 {
		t.Errorf("max page size = %d, want 50", cfg.List.MaxPageSize)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	setRequired(t)

	// Let Load's .env values land in the environment and be cleared afterwards.
	for _, k := range []string{"GIFTS_HTTP_ADDR", "GIFTS_LIST_MAX_PAGE_SIZE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("GIFTS_LIST_MAX_PAGE_SIZE", "30")

	writeFile(t, filepath.Join(dir, "gift-certs.yaml"), "http:\n  addr: \":7000\"\nlog:\n  level: debug\n")
	writeFile(t, filepath.Join(dir, ".env"), "GIFTS_HTTP_ADDR=:7100\nGIFTS_LIST_MAX_PAGE_SIZE=20\n")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.List.MaxPageSize != 30 {
		t.Errorf("max page size = %d, want 30 from the process environment", cfg.List.MaxPageSize)
	}
	if cfg.HTTP.Addr != ":7100" {
		t.Errorf("addr = %q, want :7100 from .env", cfg.HTTP.Addr)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug from gift-certs.yaml", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log format = %q, want the json default", cfg.Log.Format)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing driver", env: map[string]string{"GIFTS_DB_DRIVER": ""}},
		{name: "missing dsn", env: map[string]string{"GIFTS_DB_DSN": ""}},
		{name: "bad timeout", env: map[string]string{"GIFTS_HTTP_READ_TIMEOUT": "soon"}},
		{name: "bad log level", env: map[string]string{"GIFTS_LOG_LEVEL": "loud"}},
		{name: "bad log format", env: map[string]string{"GIFTS_LOG_FORMAT": "xml"}},
		{name: "zero page size", env: map[string]string{"GIFTS_LIST_MAX_PAGE_SIZE": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := config.Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
