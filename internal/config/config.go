// Package config loads htmlcheck settings with koanf.
//
// Sources are applied in order, later ones winning: built-in defaults,
// an optional YAML file, HTMLCHECK_* environment variables, then flag
// overrides supplied by the command layer.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/terawatthour/htmlcheck/internal/logger"
)

// Color modes for output.color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	Log    LogConfig    `koanf:"log"`
	Output OutputConfig `koanf:"output"`
	Check  CheckConfig  `koanf:"check"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OutputConfig struct {
	Color string `koanf:"color"`
	// Quiet suppresses lines for balanced inputs.
	Quiet bool `koanf:"quiet"`
}

type CheckConfig struct {
	Workers int `koanf:"workers"`
	// Extensions filters files found while walking a directory.
	Extensions []string `koanf:"extensions"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Output: OutputConfig{
			Color: ColorAuto,
		},
		Check: CheckConfig{
			Workers:    4,
			Extensions: []string{".html", ".htm", ".xhtml"},
		},
	}
}

func (c Config) defaults() map[string]any {
	return map[string]any{
		"log.level":        c.Log.Level,
		"log.format":       c.Log.Format,
		"output.color":     c.Output.Color,
		"output.quiet":     c.Output.Quiet,
		"check.workers":    c.Check.Workers,
		"check.extensions": c.Check.Extensions,
	}
}

// Validate reports the first setting that is out of range.
func (c Config) Validate() error {
	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format)
	}
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Output.Color) {
		return fmt.Errorf("output.color: must be auto, always or never, got %q", c.Output.Color)
	}
	if c.Check.Workers < 1 {
		return fmt.Errorf("check.workers: must be at least 1, got %d", c.Check.Workers)
	}
	for _, ext := range c.Check.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("check.extensions: %q must start with a dot", ext)
		}
	}
	return nil
}

// LoggerConfig maps the log section onto the logger package.
func (c Config) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}

// MatchesExtension reports whether path ends in one of the configured extensions.
func (c Config) MatchesExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range c.Check.Extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
