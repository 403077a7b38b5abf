package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file.
const (
	EnvConfigPath       = "REGION_RULER_CONFIG"
	EnvLogLevel         = "REGION_RULER_LOG_LEVEL"
	EnvDefaultTolerance = "REGION_RULER_DEFAULT_TOLERANCE"
)

// Config holds the runtime settings shared by the CLI and the MCP server.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// DefaultTolerance is used when a request does not carry a tolerance.
	DefaultTolerance float64 `yaml:"default_tolerance"`

	// MaxTolerance caps request tolerances. The engine has no upper bound
	// of its own; this is the slider range a UI would offer.
	MaxTolerance float64 `yaml:"max_tolerance"`

	// ConcurrentScans runs the four side scans of a rectangle refinement
	// in parallel.
	ConcurrentScans bool `yaml:"concurrent_scans"`

	// AutoOrient applies EXIF orientation when decoding JPEG images.
	AutoOrient bool `yaml:"auto_orient"`

	// OverlayColor is the hex color used to outline measurements.
	OverlayColor string `yaml:"overlay_color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:         "info",
		DefaultTolerance: 0,
		MaxTolerance:     510,
		ConcurrentScans:  false,
		AutoOrient:       true,
		OverlayColor:     "#FF00FFFF",
	}
}

// Load builds a Config from defaults, the YAML file at path (if non-empty)
// and then environment overrides. When path is empty the REGION_RULER_CONFIG
// variable is consulted.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvDefaultTolerance); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvDefaultTolerance, v, err)
		}
		cfg.DefaultTolerance = t
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.MaxTolerance < 0 || math.IsNaN(c.MaxTolerance) {
		errs = append(errs, fmt.Errorf("max_tolerance must be >= 0, got %v", c.MaxTolerance))
	}
	if c.DefaultTolerance < 0 || math.IsNaN(c.DefaultTolerance) {
		errs = append(errs, fmt.Errorf("default_tolerance must be >= 0, got %v", c.DefaultTolerance))
	} else if c.DefaultTolerance > c.MaxTolerance {
		errs = append(errs, fmt.Errorf("default_tolerance %v exceeds max_tolerance %v", c.DefaultTolerance, c.MaxTolerance))
	}
	return errors.Join(errs...)
}

// ClampTolerance limits a requested tolerance to [0, MaxTolerance].
func (c Config) ClampTolerance(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > c.MaxTolerance {
		return c.MaxTolerance
	}
	return t
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// NewLogger returns a text logger writing to stderr at the configured level.
// Stdout is reserved for protocol traffic.
func (c Config) NewLogger() *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
