package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/lpenlpen/atlas/app/core"
)

// Settings are read from settings.json and then overridden by environment
// variables named after the fields, e.g. ATLAS_PROJECT_DIR.
type Settings struct {
	WindowWidth     int    `json:"window_width" split_words:"true"`
	WindowHeight    int    `json:"window_height" split_words:"true"`
	WindowMaximized bool   `json:"window_maximized" split_words:"true"`
	FontSize        int    `json:"font_size" split_words:"true"`
	FontPath        string `json:"font_path" split_words:"true"`
	ProjectDir      string `json:"project_dir" split_words:"true"`
	Store           string `json:"store" split_words:"true"`
	StorePath       string `json:"store_path" split_words:"true"`
	LogVerbosity    int    `json:"log_verbosity" split_words:"true"`
	LogFile         string `json:"log_file" split_words:"true"`
}

const EnvPrefix = "ATLAS"

func DefaultSettings() *Settings {
	return &Settings{
		WindowWidth:     1280,
		WindowHeight:    800,
		WindowMaximized: false,
		FontSize:        DefaultFontSize,
		ProjectDir:      ".",
		Store:           core.StoreFiles,
		LogVerbosity:    1,
	}
}

func GetSettingsPath() string {
	if path := os.Getenv(EnvPrefix + "_SETTINGS"); path != "" {
		return path
	}
	return "settings.json"
}

// LoadSettings reads the settings file, falling back to defaults when it is
// missing or unreadable, and applies environment overrides. Only a malformed
// environment variable is an error.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, s); err != nil {
			s = DefaultSettings()
		}
	}

	if err := envconfig.Process(EnvPrefix, s); err != nil {
		return nil, fmt.Errorf("bad environment: %w", err)
	}

	s.sanitize()
	return s, nil
}

func (s *Settings) sanitize() {
	if s.WindowWidth < 100 {
		s.WindowWidth = 800
	}
	if s.WindowHeight < 100 {
		s.WindowHeight = 600
	}
	if s.FontSize < 6 || s.FontSize > 200 {
		s.FontSize = DefaultFontSize
	}
	if s.ProjectDir == "" {
		s.ProjectDir = "."
	}
	if s.Store == "" {
		s.Store = core.StoreFiles
	}
	if s.LogVerbosity < 0 {
		s.LogVerbosity = 0
	}
}

// StoreLocation is what OpenStore needs for the configured store: the project
// directory for files, the database file for sqlite.
func (s *Settings) StoreLocation() string {
	if s.Store != core.StoreSQLite {
		return s.ProjectDir
	}
	if s.StorePath != "" {
		return s.StorePath
	}
	return filepath.Join(s.ProjectDir, "atlas.db")
}

func SaveSettings(path string, s *Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
