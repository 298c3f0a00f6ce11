package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FRACCALC_ADDR", "FRACCALC_DATA_FILE", "FRACCALC_HISTORY_LIMIT", "USERNAME", "PASSWORD",
		"FRACCALC_JWT_SECRET", "FRACCALC_OPEN_BROWSER", "LOG_LEVEL", "FRACCALC_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
addr = ":9090"
data_file = "/tmp/fractions.json"
history_limit = 25
open_browser = false
allowed_origins = ["http://localhost:3000"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, "/tmp/fractions.json", cfg.DataFile)
	require.Equal(t, 25, cfg.HistoryLimit)
	require.False(t, cfg.OpenBrowser)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	// не заданные в файле значения остаются по умолчанию
	require.Equal(t, "user", cfg.Username)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
addr = ":9090"
history_limit = 25
`)
	t.Setenv("FRACCALC_ADDR", ":7070")
	t.Setenv("FRACCALC_HISTORY_LIMIT", "not-a-number")
	t.Setenv("FRACCALC_OPEN_BROWSER", "false")
	t.Setenv("FRACCALC_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("USERNAME", "alice")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.Addr)
	require.Equal(t, 25, cfg.HistoryLimit, "invalid env value keeps the file value")
	require.False(t, cfg.OpenBrowser)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	require.Equal(t, "alice", cfg.Username)
}

func TestLoadInvalidFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `addr = [`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty addr", func(c *Config) { c.Addr = " " }, true},
		{"empty data file", func(c *Config) { c.DataFile = "" }, true},
		{"zero history", func(c *Config) { c.HistoryLimit = 0 }, true},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
