package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/reel/internal/locator"
)

const (
	appName           = "reel"
	dbFileName        = "reel.db"
	logFileName       = "reel.log"
	defaultPhotoWidth = 48
	minPhotoWidth     = 8
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Platform   string `koanf:"platform"`    // "android" or "ios"
	Feed       string `koanf:"feed"`        // feed file imported into the store
	Database   string `koanf:"database"`    // empty means $XDG_DATA_HOME/reel/reel.db
	PhotoWidth int    `koanf:"photo_width"` // photo render width in cells

	Log LogConfig `koanf:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error
	File  string `koanf:"file"`  // empty means $XDG_STATE_HOME/reel/reel.log
}

// Load reads the default config files, then extra (highest priority last).
// Missing files are skipped.
func Load(extra ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range append(getConfigPaths(), extra...) {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := &Config{
		Platform:   locator.Android.String(),
		PhotoWidth: defaultPhotoWidth,
		Log:        LogConfig{Level: "info"},
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Feed = expandPath(cfg.Feed)
	cfg.Database = expandPath(cfg.Database)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown platforms and log levels.
func (c *Config) Validate() error {
	if _, err := locator.ParsePlatform(c.Platform); err != nil {
		return fmt.Errorf("%w: platform: %w", ErrInvalid, err)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	if c.PhotoWidth < minPhotoWidth {
		return fmt.Errorf("%w: photo_width %d is below %d", ErrInvalid, c.PhotoWidth, minPhotoWidth)
	}
	return nil
}

// PlatformValue returns the parsed platform. Call after Validate.
func (c *Config) PlatformValue() locator.Platform {
	p, _ := locator.ParsePlatform(c.Platform)
	return p
}

// DatabasePath returns the configured database path or the XDG default,
// creating the parent directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database != "" {
		if err := os.MkdirAll(filepath.Dir(c.Database), 0o755); err != nil {
			return "", err
		}
		return c.Database, nil
	}
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// LogPath returns the configured log file or the XDG default, creating the
// parent directory.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.File), 0o755); err != nil {
			return "", err
		}
		return c.Log.File, nil
	}
	return xdg.StateFile(filepath.Join(appName, logFileName))
}

// HasFeed returns true if a feed file is configured.
func (c *Config) HasFeed() bool {
	return c.Feed != ""
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/reel/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
