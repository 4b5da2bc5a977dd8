// Package config loads irrigo settings from a YAML file, environment
// variables and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/irrigo/internal/progress"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when IRRIGO_CONFIG is unset.
const DefaultFile = "irrigo.yml"

type Config struct {
	DB       string         `yaml:"db"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Status   StatusConfig   `yaml:"status"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StatusConfig holds the deviation limits, in percentage points, used to
// classify a project as behind or critical.
type StatusConfig struct {
	BehindThreshold   float64 `yaml:"behind_threshold"`
	CriticalThreshold float64 `yaml:"critical_threshold"`
}

type SnapshotConfig struct {
	// RefreshSchedule is a cron spec for the background cache refresh run by
	// the server. Empty disables it.
	RefreshSchedule string `yaml:"refresh_schedule"`
}

// DefaultConfig returns the settings used when nothing overrides them. The
// database lives in ~/.irrigo unless the home directory cannot be found.
func DefaultConfig() Config {
	th := progress.DefaultThresholds()
	dbPath := filepath.Join(".irrigo", "irrigo.db")
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".irrigo", "irrigo.db")
	}
	return Config{
		DB:       dbPath,
		HTTP:     HTTPConfig{Addr: ":8080"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Status:   StatusConfig{BehindThreshold: th.Behind, CriticalThreshold: th.Critical},
		Snapshot: SnapshotConfig{RefreshSchedule: "@every 30m"},
	}
}

// Path returns the config file to read: IRRIGO_CONFIG or DefaultFile.
func Path() string {
	if v := os.Getenv("IRRIGO_CONFIG"); v != "" {
		return v
	}
	return DefaultFile
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error unless it was named
// explicitly through IRRIGO_CONFIG.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
		slog.Debug("loaded config", "path", path)
	case errors.Is(err, os.ErrNotExist) && os.Getenv("IRRIGO_CONFIG") == "":
	default:
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from IRRIGO_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("IRRIGO_DB"); v != "" {
		c.DB = v
	}
	if v := os.Getenv("IRRIGO_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("IRRIGO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("IRRIGO_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("IRRIGO_BEHIND_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.Status.BehindThreshold = f
		}
	}
	if v := os.Getenv("IRRIGO_CRITICAL_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.Status.CriticalThreshold = f
		}
	}
}

// RegisterFlags binds persistent command-line overrides to c. Flag defaults
// are the values c holds when called, so register after Load.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.DB, "db", c.DB, "path to the SQLite database")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level: debug, info, warn, error")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "log format: text or json")
}

func (c Config) Validate() error {
	if c.DB == "" {
		return fmt.Errorf("config: db path is required")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Status.BehindThreshold < 0 || c.Status.CriticalThreshold < c.Status.BehindThreshold {
		return fmt.Errorf("config: need 0 <= behind_threshold (%.1f) <= critical_threshold (%.1f)",
			c.Status.BehindThreshold, c.Status.CriticalThreshold)
	}
	return nil
}

// Thresholds returns the status limits as the progress engine expects them.
func (c Config) Thresholds() progress.Thresholds {
	return progress.Thresholds{Behind: c.Status.BehindThreshold, Critical: c.Status.CriticalThreshold}
}

// NewLogger builds the process logger described by the log settings.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: log.level %q: %w", s, err)
	}
	return level, nil
}
