package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FRACCALC_ADDR", "FRACCALC_DATA_FILE", "FRACCALC_HISTORY_LIMIT", "FRACCALC_JWT_SECRET",
		"FRACCALC_OPEN_BROWSER", "FRACCALC_ALLOWED_ORIGINS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr = ":7000"
data_file = "from-file.json"
open_browser = true
`), 0o644))

	root := newRootCommand()
	require.NoError(t, root.ParseFlags([]string{"--config", path, "--addr", ":9000", "--no-browser"}))

	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "from-file.json", cfg.DataFile)
	assert.False(t, cfg.OpenBrowser)
}

func TestUnchangedFlagsKeepConfig(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("FRACCALC_ADDR", ":7100")

	root := newRootCommand()
	require.NoError(t, root.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")}))

	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, ":7100", cfg.Addr)
	assert.True(t, cfg.OpenBrowser)
}

func TestLocalURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", localURL(":8080"))
	assert.Equal(t, "http://127.0.0.1:9000", localURL("127.0.0.1:9000"))
}
