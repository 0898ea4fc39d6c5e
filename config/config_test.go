package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"DB_TYPE", "DATABASE_URL", "DB_FILE", "PORT", "PREVIEW_MAP", "PREVIEW_ZOOM", "PREVIEW_COLOR"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "previewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  type: memory
preview:
  map: crypt
  zoom: 2.5
  color: never
  help_text:
    - Press R to regenerate
logging:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, "crypt", cfg.Preview.Map)
	assert.Equal(t, 2.5, cfg.Preview.Zoom)
	assert.Equal(t, ColorNever, cfg.Preview.Color)
	assert.Equal(t, []string{"Press R to regenerate"}, cfg.Preview.HelpText)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults
	assert.Equal(t, 30, cfg.Preview.SectionWidth)
	assert.Equal(t, "maps.json", cfg.Storage.File)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/maps")
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("PREVIEW_MAP", "atrium")
	t.Setenv("PREVIEW_ZOOM", "0.5")
	t.Setenv("PREVIEW_COLOR", "ALWAYS")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Type)
	assert.Equal(t, "postgres://localhost/maps", cfg.Storage.DatabaseURL)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, "atrium", cfg.Preview.Map)
	assert.Equal(t, 0.5, cfg.Preview.Zoom)
	assert.Equal(t, ColorAlways, cfg.Preview.Color)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"DB_TYPE":       "sqlite",
		"PREVIEW_ZOOM":  "4",
		"PREVIEW_COLOR": "sepia",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}

	clearEnv(t)
	t.Setenv("PREVIEW_ZOOM", "wide")
	_, err := Load("")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preview: [unclosed"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "previewer.yaml")
	cfg := DefaultConfig()
	cfg.Preview.Map = "vault"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
