// Package config resolves runtime settings from defaults, an optional .env
// file, STUDYD_* environment variables and command-line flags, in that
// order of precedence from lowest to highest.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type RuntimeConfig struct {
	DBPath               string
	DesktopNotifications bool
	SchedulerBuffer      int
	SweepInterval        time.Duration
	LogFile              string
	LogLevel             string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:               "studyd.db",
		DesktopNotifications: false,
		SchedulerBuffer:      64,
		SweepInterval:        time.Minute,
		LogFile:              "studyd.log",
		LogLevel:             "info",
	}
}

// LoadDotEnv loads the given files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("STUDYD_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvBool("STUDYD_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("STUDYD_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvDuration("STUDYD_SWEEP_INTERVAL"); ok && v > 0 {
		cfg.SweepInterval = v
	}
	if v, ok := getEnvString("STUDYD_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("STUDYD_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	return cfg
}

// BindFlags registers overrides for cfg on fs. Values already in cfg become
// the flag defaults.
func (cfg *RuntimeConfig) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database")
	fs.BoolVar(&cfg.DesktopNotifications, "desktop-notifications", cfg.DesktopNotifications, "also send reminders to the desktop notifier")
	fs.IntVar(&cfg.SchedulerBuffer, "scheduler-buffer", cfg.SchedulerBuffer, "reminder event buffer size")
	fs.DurationVar(&cfg.SweepInterval, "sweep-interval", cfg.SweepInterval, "how often upcoming tasks are checked")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "JSON log output file (empty disables logging)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
}

// Validate clamps values the flag layer cannot reject on its own.
func (cfg RuntimeConfig) Validate() error {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("config: database path is required")
	}
	if cfg.SchedulerBuffer <= 0 {
		return errors.New("config: scheduler buffer must be positive")
	}
	if cfg.SweepInterval < time.Second {
		return errors.New("config: sweep interval must be at least 1s")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("config: unknown log level " + strconv.Quote(cfg.LogLevel))
	}
	return nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
