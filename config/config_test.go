package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrgen/qrgen/encoder"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qrgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "qr_codes", cfg.OutputDir)
	assert.Equal(t, "skip2", cfg.Engine)
	assert.True(t, cfg.HistoryEnabled)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout.Duration)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, encoder.DefaultOptions(), opts)
}

func TestLoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
output_dir: /tmp/codes
engine: boombuler
module_size: 5
border: 2
level: "Q (25%)"
history_enabled: false
webhook_url: http://hooks.local/qr
webhook_timeout: 3s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/codes", cfg.OutputDir)
	assert.Equal(t, "boombuler", cfg.Engine)
	assert.False(t, cfg.HistoryEnabled)
	assert.Equal(t, "http://hooks.local/qr", cfg.WebhookURL)
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout.Duration)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, encoder.Options{ModuleSize: 5, Border: 2, Level: encoder.LevelQuartile}, opts)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "module_size: 5\nlevel: L\n")
	t.Setenv("QRGEN_MODULE_SIZE", "15")
	t.Setenv("QRGEN_LEVEL", "M")
	t.Setenv("QRGEN_OUTPUT_DIR", "env_codes")
	t.Setenv("QRGEN_HISTORY", "no")
	t.Setenv("QRGEN_WEBHOOK_TIMEOUT", "250ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.ModuleSize)
	assert.Equal(t, "M", cfg.Level)
	assert.Equal(t, "env_codes", cfg.OutputDir)
	assert.False(t, cfg.HistoryEnabled)
	assert.Equal(t, 250*time.Millisecond, cfg.WebhookTimeout.Duration)
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"bad level":    "level: Z\n",
		"bad engine":   "engine: zint\n",
		"zero module":  "module_size: 0\n",
		"bad duration": "webhook_timeout: soon\n",
		"bad yaml":     "level: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestEnsureDataDir(t *testing.T) {
	cfg := defaults()
	cfg.DataDir = filepath.Join(t.TempDir(), "nested", "data")
	require.NoError(t, cfg.EnsureDataDir())
	assert.DirExists(t, cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "history.db"), cfg.HistoryPath())
}
