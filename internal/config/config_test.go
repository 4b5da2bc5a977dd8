package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "irrigo.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Setenv("IRRIGO_CONFIG", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5.0, cfg.Status.BehindThreshold)
	assert.Equal(t, 15.0, cfg.Status.CriticalThreshold)
	assert.Equal(t, "@every 30m", cfg.Snapshot.RefreshSchedule)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yml")
	t.Setenv("IRRIGO_CONFIG", path)
	_, err := Load(Path())
	assert.Error(t, err)
}

func TestLoad_FileThenEnv(t *testing.T) {
	t.Setenv("IRRIGO_CONFIG", "")
	path := writeFile(t, `
db: /var/lib/irrigo/data.db
http:
  addr: ":9090"
log:
  level: debug
status:
  behind_threshold: 3
  critical_threshold: 10
snapshot:
  refresh_schedule: "0 2 * * *"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/irrigo/data.db", cfg.DB)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep defaults")
	assert.Equal(t, 3.0, cfg.Thresholds().Behind)
	assert.Equal(t, "0 2 * * *", cfg.Snapshot.RefreshSchedule)

	t.Setenv("IRRIGO_DB", "/tmp/override.db")
	t.Setenv("IRRIGO_ADDR", "127.0.0.1:7000")
	t.Setenv("IRRIGO_CRITICAL_THRESHOLD", "20")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.DB)
	assert.Equal(t, "127.0.0.1:7000", cfg.HTTP.Addr)
	assert.Equal(t, 20.0, cfg.Status.CriticalThreshold)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("IRRIGO_CONFIG", "")
	tests := map[string]string{
		"bad yaml":            "db: [",
		"bad level":           "log:\n  level: loud\n",
		"bad format":          "log:\n  format: xml\n",
		"inverted thresholds": "status:\n  behind_threshold: 20\n  critical_threshold: 10\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}

func TestRegisterFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DB = "/from/file.db"
	fs := pflag.NewFlagSet("irrigo", pflag.ContinueOnError)
	cfg.RegisterFlags(fs)

	require.NoError(t, fs.Parse([]string{"--log-level", "warn"}))
	assert.Equal(t, "/from/file.db", cfg.DB, "unset flags keep loaded values")
	assert.Equal(t, "warn", cfg.Log.Level)

	require.NoError(t, fs.Parse([]string{"--db", "/from/flag.db"}))
	assert.Equal(t, "/from/flag.db", cfg.DB)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "project", "IRG01")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"project":"IRG01"`)
}
