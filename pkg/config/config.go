// Package config loads the optional vdom.yaml file that tunes mount options
// and logging.
package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/logging"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "vdom.yaml"

// SchemaVersion is the newest configuration schema understood by Parse.
const SchemaVersion = "v1.0.0"

// Config represents the optional vdom.yaml configuration.
type Config struct {
	// Version is the schema version of the file. Files with a newer major
	// version are rejected.
	Version string       `yaml:"version,omitempty"`
	Render  RenderConfig `yaml:"render"`
	Log     LogConfig    `yaml:"log"`
}

// RenderConfig contains renderer settings.
type RenderConfig struct {
	Sync          bool `yaml:"sync"`
	Diagnostics   bool `yaml:"diagnostics"`
	SkipIdentical bool `yaml:"skipIdentical"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	// Verbose forces debug level and stack traces on recovered panics.
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version: SchemaVersion,
		Render:  RenderConfig{Diagnostics: true},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// LoadOptional reads vdom.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, configError("config.LoadOptional", fmt.Errorf("failed to read %s: %w", FileName, err))
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, configError("config.Parse", fmt.Errorf("failed to parse %s: %w", FileName, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, configError("config.Parse", err)
	}
	return cfg, nil
}

// Validate checks the schema version and the log settings.
func (c *Config) Validate() error {
	v := strings.TrimSpace(c.Version)
	if v == "" {
		v = SchemaVersion
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid version %q", c.Version)
	}
	if semver.Major(v) != semver.Major(SchemaVersion) {
		return fmt.Errorf("unsupported version %s (want %s)", v, semver.Major(SchemaVersion))
	}
	c.Version = v

	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// Apply copies the render settings onto opts. A logger is installed when
// opts has none.
func (c *Config) Apply(opts *core.Options) {
	opts.Sync = c.Render.Sync
	opts.Diagnostics = c.Render.Diagnostics
	opts.SkipIdentical = c.Render.SkipIdentical
	if opts.Logger == nil {
		opts.Logger = c.Logger()
	}
	if c.Log.Verbose {
		core.SetDebugMode(true)
	}
}

// Logger builds a logger writing to stderr.
func (c *Config) Logger() logging.Logger {
	return c.LoggerTo(os.Stderr)
}

// LoggerTo builds a logger writing to w.
func (c *Config) LoggerTo(w io.Writer) logging.Logger {
	level := logging.ParseLevel(c.Log.Level)
	if c.Log.Verbose {
		level = logging.LogLevelDebug
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    strings.ToLower(strings.TrimSpace(c.Log.Format)),
		Output:    w,
		AddSource: c.Log.Verbose,
		Component: "vdom",
	})
}

func configError(op string, err error) error {
	return &errors.RenderError{Op: op, Kind: errors.KindConfig, Err: err}
}
