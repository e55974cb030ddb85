package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lpenlpen/atlas/app/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettings_FileAndSanity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"window_width": 50,
		"window_height": 900,
		"font_size": 1000,
		"project_dir": "/srv/atlas",
		"store": "sqlite"
	}`), 0644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 800, s.WindowWidth)
	assert.Equal(t, 900, s.WindowHeight)
	assert.Equal(t, DefaultFontSize, s.FontSize)
	assert.Equal(t, "/srv/atlas", s.ProjectDir)
	assert.Equal(t, filepath.Join("/srv/atlas", "atlas.db"), s.StoreLocation())
}

func TestLoadSettings_BadFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"window_width": `), 0644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, SaveSettings(path, &Settings{WindowWidth: 1000, WindowHeight: 700, ProjectDir: "from-file"}))

	t.Setenv("ATLAS_PROJECT_DIR", "from-env")
	t.Setenv("ATLAS_STORE", core.StoreSQLite)
	t.Setenv("ATLAS_STORE_PATH", "/tmp/x.db")
	t.Setenv("ATLAS_LOG_VERBOSITY", "3")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 1000, s.WindowWidth)
	assert.Equal(t, "from-env", s.ProjectDir)
	assert.Equal(t, 3, s.LogVerbosity)
	assert.Equal(t, "/tmp/x.db", s.StoreLocation())
}

func TestLoadSettings_BadEnv(t *testing.T) {
	t.Setenv("ATLAS_WINDOW_WIDTH", "wide")
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestStoreLocation_Files(t *testing.T) {
	s := DefaultSettings()
	s.ProjectDir = "maps"
	assert.Equal(t, "maps", s.StoreLocation())
}
