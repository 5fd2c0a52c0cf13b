package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DBDriver != "sqlite" || cfg.DBPath != "./dev.db" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.CatalogSource != CatalogDatabase || cfg.DocumentRenderer != "auto" {
		t.Fatalf("unexpected catalog/document defaults %+v", cfg)
	}
	if cfg.MaxBodyBytes != 1<<20 || cfg.FlowSessionTTL != 30*time.Minute || cfg.FlowMaxRooms != 4 {
		t.Fatalf("unexpected limits %+v", cfg)
	}
	if !cfg.IsDev() {
		t.Fatalf("default environment should be dev")
	}
}

func TestLoadDotEnvValuesAndIgnoresNoise(t *testing.T) {
	path := writeFile(t, ".env", `
# comment
export ADMIN_EMAIL=admin@example.com
ADMIN_PASSWORD="secret pass"
SESSION_SECRET='abc123'
FLOW_SESSION_TTL=45m
FLOW_MAX_ROOMS=6
`)
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AdminEmail != "admin@example.com" {
		t.Fatalf("ADMIN_EMAIL = %q", cfg.AdminEmail)
	}
	if cfg.AdminPassword != "secret pass" {
		t.Fatalf("ADMIN_PASSWORD = %q", cfg.AdminPassword)
	}
	if cfg.SessionSecret != "abc123" {
		t.Fatalf("SESSION_SECRET = %q", cfg.SessionSecret)
	}
	if cfg.FlowSessionTTL != 45*time.Minute || cfg.FlowMaxRooms != 6 {
		t.Fatalf("unexpected flow settings %+v", cfg)
	}
	if len(cfg.Warnings()) != 0 {
		t.Fatalf("unexpected warnings %v", cfg.Warnings())
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, ".env", "PORT=9000\nDB_PATH=/tmp/from-file.db\n")
	t.Setenv("PORT", "7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7000" {
		t.Fatalf("expected env to win, got %q", cfg.Port)
	}
	if cfg.DBPath != "/tmp/from-file.db" {
		t.Fatalf("expected file value, got %q", cfg.DBPath)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeFile(t, "cotizador.yaml", "app_env: production\ncatalog_source: builtin\ndocument_renderer: simple\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IsDev() {
		t.Fatalf("production must not be dev")
	}
	if cfg.CatalogSource != CatalogBuiltin || cfg.DocumentRenderer != "simple" {
		t.Fatalf("unexpected values %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidateRejectsUnsupportedValues(t *testing.T) {
	base, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"renderer", func(c *Config) { c.DocumentRenderer = "html" }},
		{"catalog source", func(c *Config) { c.CatalogSource = "s3" }},
		{"catalog file missing", func(c *Config) { c.CatalogSource = CatalogFile }},
		{"body limit", func(c *Config) { c.MaxBodyBytes = 0 }},
		{"ttl", func(c *Config) { c.FlowSessionTTL = 0 }},
		{"rooms", func(c *Config) { c.FlowMaxRooms = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestWarningsListMissingAdminSettings(t *testing.T) {
	cfg := Config{AdminEmail: "admin@example.com"}
	if got := len(cfg.Warnings()); got != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", got, cfg.Warnings())
	}
}
