package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/asteroidfield/internal/field"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "field.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, field.DefaultParams(), cfg.Field)
	assert.Equal(t, 60, cfg.Render.FPS)
	assert.Equal(t, time.Second/60, cfg.Render.FrameTime())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[field]
population = 120
max_depth = 3000

[render]
fps = 30

[ssh]
port = "2323"
inactivity_warn = "30s"
inactivity_disconnect = "1m"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Field.Population)
	assert.Equal(t, 3000.0, cfg.Field.MaxDepth)
	assert.Equal(t, 8.0, cfg.Field.BaseRate, "unset keys keep defaults")
	assert.Equal(t, 30, cfg.Render.FPS)
	assert.Equal(t, "2323", cfg.SSH.Port)
	assert.Equal(t, 30*time.Second, cfg.SSH.InactivityWarn)
	assert.Equal(t, time.Minute, cfg.SSH.InactivityDisconnect)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[field]\npopulaton = 10\n")
	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "field.populaton")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"field params", "[field]\npopulation = 0\n"},
		{"fps", "[render]\nfps = 0\n"},
		{"cell size", "[render]\ncell_width = 0.0\n"},
		{"page", "[page]\nscreens = 0.5\n"},
		{"inactivity", "[ssh]\ninactivity_warn = \"5m\"\ninactivity_disconnect = \"1m\"\n"},
		{"log level", "[log]\nlevel = \"loud\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SSH_PORT", "2424")
	t.Setenv("FIELD_FPS", "24")
	t.Setenv("FIELD_SEED", "99")
	t.Setenv("FIELD_POPULATION", "12")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "2424", cfg.SSH.Port)
	assert.Equal(t, 24, cfg.Render.FPS)
	assert.Equal(t, int64(99), cfg.Render.Seed)
	assert.Equal(t, 12, cfg.Field.Population)
}

func TestEnvRejectsGarbage(t *testing.T) {
	t.Setenv("FIELD_FPS", "fast")
	_, err := Load("")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("FIELD_TEST_KEY", "set")
	assert.Equal(t, "set", GetEnv("FIELD_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("FIELD_TEST_MISSING", "fallback"))
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf, "test")
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "key=value")
}
