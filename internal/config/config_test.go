package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.DBPath != "studyd.db" || cfg.SchedulerBuffer != 64 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SweepInterval != time.Minute || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("STUDYD_DB_PATH", "data/study.db")
	t.Setenv("STUDYD_DESKTOP_NOTIFICATIONS", "yes")
	t.Setenv("STUDYD_SCHEDULER_BUFFER", "128")
	t.Setenv("STUDYD_SWEEP_INTERVAL", "30s")
	t.Setenv("STUDYD_LOG_LEVEL", "DEBUG")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DBPath != "data/study.db" || !cfg.DesktopNotifications {
		t.Fatalf("unexpected env overrides: %+v", cfg)
	}
	if cfg.SchedulerBuffer != 128 || cfg.SweepInterval != 30*time.Second {
		t.Fatalf("unexpected env overrides: %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected lowercased level, got %q", cfg.LogLevel)
	}
}

func TestRuntimeConfigIgnoresBadEnv(t *testing.T) {
	t.Setenv("STUDYD_SCHEDULER_BUFFER", "lots")
	t.Setenv("STUDYD_SWEEP_INTERVAL", "-5s")
	t.Setenv("STUDYD_DESKTOP_NOTIFICATIONS", "maybe")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg != DefaultRuntimeConfig() {
		t.Fatalf("expected defaults to survive bad env, got %+v", cfg)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("STUDYD_DB_PATH", "env.db")
	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())

	fs := pflag.NewFlagSet("studyd", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse([]string{"--db", "flag.db", "--sweep-interval", "2m"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.DBPath != "flag.db" || cfg.SweepInterval != 2*time.Minute {
		t.Fatalf("unexpected flag overrides: %+v", cfg)
	}
}

func TestLoadDotEnvDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("STUDYD_LOG_FILE=dotenv.log\nSTUDYD_DB_PATH=dotenv.db\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("STUDYD_DB_PATH", "shell.db")
	t.Setenv("STUDYD_LOG_FILE", "")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DBPath != "shell.db" {
		t.Fatalf("expected shell value to win, got %q", cfg.DBPath)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []func(*RuntimeConfig){
		func(c *RuntimeConfig) { c.DBPath = " " },
		func(c *RuntimeConfig) { c.SchedulerBuffer = 0 },
		func(c *RuntimeConfig) { c.SweepInterval = time.Millisecond },
		func(c *RuntimeConfig) { c.LogLevel = "loud" },
	}
	for i, mutate := range cases {
		cfg := DefaultRuntimeConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
