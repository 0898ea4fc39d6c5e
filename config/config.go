// Package config loads previewer settings from a YAML file with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"dungeon-viewer/previewer/models"
	"dungeon-viewer/previewer/persistence"
)

// Colour modes for terminal output
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds all previewer configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Preview PreviewConfig `yaml:"preview"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects and configures the map store.
type StorageConfig struct {
	Type        string `yaml:"type"` // json, postgres, memory
	DatabaseURL string `yaml:"database_url"`
	File        string `yaml:"file"`
}

// ServerConfig configures the websocket preview server.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// PreviewConfig configures what is rendered.
type PreviewConfig struct {
	Map           string   `yaml:"map"`
	Zoom          float64  `yaml:"zoom"`
	Color         string   `yaml:"color"` // auto, always, never
	HostHint      string   `yaml:"host_hint"`
	SectionWidth  int      `yaml:"section_width"`
	SectionHeight int      `yaml:"section_height"`
	HelpText      []string `yaml:"help_text"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Type:        persistence.TypeJSON,
			DatabaseURL: "host=localhost user=dungeon password=dungeon dbname=dungeon_viewer sslmode=disable",
			File:        "maps.json",
		},
		Server: ServerConfig{
			Port: "8080",
		},
		Preview: PreviewConfig{
			Zoom:          1.0,
			Color:         ColorAuto,
			SectionWidth:  30,
			SectionHeight: 20,
			HelpText:      models.SampleHelpText(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies DB_TYPE, DATABASE_URL, DB_FILE, PORT,
// PREVIEW_MAP, PREVIEW_ZOOM and PREVIEW_COLOR.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("DB_TYPE"); v != "" {
		c.Storage.Type = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.DatabaseURL = v
	}
	if v := os.Getenv("DB_FILE"); v != "" {
		c.Storage.File = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("PREVIEW_MAP"); v != "" {
		c.Preview.Map = v
	}
	if v := os.Getenv("PREVIEW_ZOOM"); v != "" {
		z, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid PREVIEW_ZOOM %q: %w", v, err)
		}
		c.Preview.Zoom = z
	}
	if v := os.Getenv("PREVIEW_COLOR"); v != "" {
		c.Preview.Color = strings.ToLower(v)
	}
	return nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case persistence.TypeJSON, persistence.TypePostgres, persistence.TypeMemory:
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.Preview.Zoom < models.MinZoom || c.Preview.Zoom > models.MaxZoom {
		return fmt.Errorf("zoom %.2f outside [%.2f, %.2f]", c.Preview.Zoom, models.MinZoom, models.MaxZoom)
	}
	switch c.Preview.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q", c.Preview.Color)
	}
	if c.Preview.SectionWidth <= 0 || c.Preview.SectionHeight <= 0 {
		return fmt.Errorf("section size %dx%d must be positive", c.Preview.SectionWidth, c.Preview.SectionHeight)
	}
	return nil
}

// Addr returns the listen address for the preview server.
func (c *Config) Addr() string {
	if strings.Contains(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
