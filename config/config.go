// Package config holds the user settings of the game menu, including the set
// of favorite games, and persists them as TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultFileName is the config file name inside the config directory.
	DefaultFileName = "config.toml"

	appDirName = "gazemenu"

	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config captures the user-adjustable settings.
type Config struct {
	Language            string    `toml:"language"`
	FixationThresholdMs int       `toml:"fixation_threshold_ms"`
	DwellTickMs         int       `toml:"dwell_tick_ms"`
	Orientation         string    `toml:"orientation"`
	SoundEnabled        bool      `toml:"sound_enabled"`
	FavoriteGames       []string  `toml:"favorite_games"`
	Log                 LogConfig `toml:"log"`
}

// LogConfig defines log verbosity and formatting.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Language:            "",
		FixationThresholdMs: 1000,
		DwellTickMs:         100,
		Orientation:         OrientationVertical,
		SoundEnabled:        true,
		FavoriteGames:       nil,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, DefaultFileName), nil
}

// FixationThreshold returns the dwell duration needed to toggle a favorite.
func (c Config) FixationThreshold() time.Duration {
	return time.Duration(c.FixationThresholdMs) * time.Millisecond
}

// DwellTick returns the interval at which still pointers are re-evaluated.
func (c Config) DwellTick() time.Duration {
	return time.Duration(c.DwellTickMs) * time.Millisecond
}

// Validate checks the ranges of all settings.
func (c Config) Validate() error {
	if c.FixationThresholdMs <= 0 {
		return fmt.Errorf("%w: fixation_threshold_ms must be positive, got %d", ErrInvalid, c.FixationThresholdMs)
	}
	if c.DwellTickMs <= 0 {
		return fmt.Errorf("%w: dwell_tick_ms must be positive, got %d", ErrInvalid, c.DwellTickMs)
	}
	switch c.Orientation {
	case OrientationHorizontal, OrientationVertical:
	default:
		return fmt.Errorf("%w: orientation must be %q or %q, got %q", ErrInvalid, OrientationHorizontal, OrientationVertical, c.Orientation)
	}
	if _, err := NormalizeLogLevel(c.Log.Level); err != nil {
		return err
	}
	for i, id := range c.FavoriteGames {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: favorite_games[%d] is empty", ErrInvalid, i)
		}
	}
	return nil
}

// NormalizeLogLevel lowercases level and checks it is known. Empty means info.
func NormalizeLogLevel(level string) (string, error) {
	l := strings.ToLower(strings.TrimSpace(level))
	switch l {
	case "":
		return "info", nil
	case "debug", "info", "warn", "error":
		return l, nil
	}
	return "", fmt.Errorf("%w: unknown log level %q", ErrInvalid, level)
}

// Load reads the config at path on top of the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML data on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), fmt.Errorf("%w: unknown keys %v", ErrInvalid, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path, replacing the file atomically.
func Save(path string, cfg Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with GAZEMENU_* environment variables. Invalid values
// are logged and ignored.
func ApplyEnv(cfg Config, logger *slog.Logger) Config {
	if lang := strings.TrimSpace(os.Getenv("GAZEMENU_LANG")); lang != "" {
		cfg.Language = lang
	}
	if raw := strings.TrimSpace(os.Getenv("GAZEMENU_FIXATION_MS")); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			if logger != nil {
				logger.Warn("ignoring GAZEMENU_FIXATION_MS", "value", raw)
			}
		} else {
			cfg.FixationThresholdMs = ms
		}
	}
	return cfg
}
