package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kubeshield/audit-service/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultsWithoutFile(t *testing.T) {
	l, err := config.NewLoader(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not fail: %v", err)
	}
	cfg := l.Config()

	if cfg.Server.Addr != ":8000" {
		t.Errorf("addr = %q, want :8000", cfg.Server.Addr)
	}
	if cfg.Storage.MaxEvents != 100 || cfg.Storage.MaxBuckets != 720 {
		t.Errorf("storage defaults = %d/%d, want 100/720", cfg.Storage.MaxEvents, cfg.Storage.MaxBuckets)
	}
	if cfg.Simulation.Enabled == nil || !*cfg.Simulation.Enabled {
		t.Error("simulation should default to enabled")
	}
	if cfg.Simulation.IntervalSeconds != 5 {
		t.Errorf("interval = %d, want 5", cfg.Simulation.IntervalSeconds)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("cors origins = %v, want [*]", cfg.CORSOrigins)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
storage:
  max_events: 50
simulation:
  enabled: false
  interval_seconds: 2
cors_origins:
  - "https://dashboard.example.com"
`)
	l, err := config.NewLoader(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg := l.Config()

	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.Storage.MaxEvents != 50 {
		t.Errorf("max_events = %d, want 50", cfg.Storage.MaxEvents)
	}
	if cfg.Storage.MaxBuckets != 720 {
		t.Errorf("max_buckets = %d, want default 720", cfg.Storage.MaxBuckets)
	}
	if *cfg.Simulation.Enabled {
		t.Error("simulation should be disabled")
	}
	if cfg.Simulation.IntervalSeconds != 2 {
		t.Errorf("interval = %d, want 2", cfg.Simulation.IntervalSeconds)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	if _, err := config.NewLoader(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"defaults valid", func(c *config.Config) {}, false},
		{"negative events", func(c *config.Config) { c.Storage.MaxEvents = -1 }, true},
		{"zero buckets", func(c *config.Config) { c.Storage.MaxBuckets = 0 }, true},
		{"zero interval", func(c *config.Config) { c.Simulation.IntervalSeconds = 0 }, true},
		{"empty addr", func(c *config.Config) { c.Server.Addr = "" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := config.NewLoader("")
			if err != nil {
				t.Fatal(err)
			}
			cfg := l.Config()
			tc.mutate(cfg)
			err = config.Validate(cfg)
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestReloadFiresOnChange(t *testing.T) {
	path := writeConfig(t, "simulation:\n  interval_seconds: 5\n")
	l, err := config.NewLoader(path)
	if err != nil {
		t.Fatal(err)
	}

	var got *config.Config
	l.OnChange(func(cfg *config.Config) { got = cfg })

	if err := os.WriteFile(path, []byte("simulation:\n  interval_seconds: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Reload(); err != nil {
		t.Fatal(err)
	}

	if got == nil {
		t.Fatal("OnChange callback not invoked")
	}
	if got.Simulation.IntervalSeconds != 9 {
		t.Errorf("interval = %d, want 9", got.Simulation.IntervalSeconds)
	}
	if l.Config().Simulation.IntervalSeconds != 9 {
		t.Error("Config() does not reflect the reload")
	}
}

func TestReloadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "storage:\n  max_events: 10\n")
	l, err := config.NewLoader(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("storage:\n  max_events: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Reload(); err == nil {
		t.Fatal("expected validation error on reload")
	}
	if l.Config().Storage.MaxEvents != 10 {
		t.Error("invalid reload replaced the current config")
	}
}
