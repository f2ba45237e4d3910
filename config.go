package postlist

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the file based settings of a Manager.
type Config struct {
	DesignSlugSuffix string `yaml:"designSlugSuffix" toml:"designSlugSuffix"`
	TrashMarker      string `yaml:"trashMarker" toml:"trashMarker"`
	TitlePrefix      string `yaml:"titlePrefix" toml:"titlePrefix"`
	LogLevel         string `yaml:"logLevel" toml:"logLevel"` // debug, info, warn or error
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		DesignSlugSuffix: DefaultDesignSlugSuffix,
		TrashMarker:      DefaultTrashMarker,
		TitlePrefix:      DefaultTitlePrefix,
		LogLevel:         "info",
	}
}

// LoadConfig loads configuration from a TOML (.toml) or YAML (.yaml, .yml) file. A missing file
// yields the defaults. POSTLIST_DESIGN_SUFFIX, POSTLIST_TRASH_MARKER, POSTLIST_TITLE_PREFIX and
// POSTLIST_LOG_LEVEL override the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err == nil {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			err = toml.Unmarshal(data, cfg)
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, cfg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("POSTLIST_DESIGN_SUFFIX"); v != "" {
		c.DesignSlugSuffix = v
	}
	if v := os.Getenv("POSTLIST_TRASH_MARKER"); v != "" {
		c.TrashMarker = v
	}
	if v := os.Getenv("POSTLIST_TITLE_PREFIX"); v != "" {
		c.TitlePrefix = v
	}
	if v := os.Getenv("POSTLIST_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// SlugPolicy returns the slug policy described by the configuration.
func (c *Config) SlugPolicy() SlugPolicy {
	return SlugPolicy{
		Suffix:      c.DesignSlugSuffix,
		TrashMarker: c.TrashMarker,
	}
}

// Options returns Manager options for the configuration. The stores and catalog are left to the caller.
func (c *Config) Options() Options {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	return Options{
		Logger: slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{
				Level: level,
			})),
		SlugPolicy:  c.SlugPolicy(),
		TitlePrefix: c.TitlePrefix,
	}
}
