// Package config handles parsing and writing of boxfetch configuration files
// (.boxfetch.toml, or YAML when the file name ends in .yaml/.yml).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/bolasblack/boxfetch/internal/sudo"
	"github.com/bolasblack/boxfetch/internal/util"
)

// Filename is the standard configuration file name.
const Filename = ".boxfetch.toml"

// Config represents the boxfetch configuration.
type Config struct {
	SourceURL           string    `toml:"source_url" yaml:"source_url" json:"source_url" jsonschema:"description=Subscription URL the configuration is downloaded from"`
	Filename            string    `toml:"filename,omitempty" yaml:"filename,omitempty" json:"filename,omitempty" jsonschema:"description=File name written inside directory,default=config.json"`
	Directory           string    `toml:"directory,omitempty" yaml:"directory,omitempty" json:"directory,omitempty" jsonschema:"description=Privileged directory the file is written to,default=/data/adb/box/sing-box"`
	IntervalMinutes     int       `toml:"interval_minutes,omitempty" yaml:"interval_minutes,omitempty" json:"interval_minutes,omitempty" jsonschema:"minimum=1,description=Minutes between periodic syncs,default=60"`
	Elevation           sudo.Mode `toml:"elevation,omitempty" yaml:"elevation,omitempty" json:"elevation,omitempty" jsonschema:"enum=su,enum=sudo,enum=direct,enum=none,description=How privileged commands are run,default=su"`
	RunOnStart          *bool     `toml:"run_on_start,omitempty" yaml:"run_on_start,omitempty" json:"run_on_start,omitempty" jsonschema:"description=Sync immediately when periodic sync is enabled instead of after the first interval,default=true"`
	FetchTimeoutSeconds int       `toml:"fetch_timeout_seconds,omitempty" yaml:"fetch_timeout_seconds,omitempty" json:"fetch_timeout_seconds,omitempty" jsonschema:"minimum=0,description=Per-request download timeout; 0 means no limit"`
	LogLevel            string    `toml:"log_level,omitempty" yaml:"log_level,omitempty" json:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,description=Log verbosity,default=info"`
}

// DefaultIntervalMinutes is used when interval_minutes is not set.
const DefaultIntervalMinutes = 60

// DefaultConfig returns a Config with defaults and no source URL.
func DefaultConfig() Config {
	runOnStart := true
	return Config{
		Filename:        util.DefaultFilename,
		Directory:       util.DefaultDirectory,
		IntervalMinutes: DefaultIntervalMinutes,
		Elevation:       sudo.ModeSu,
		RunOnStart:      &runOnStart,
		LogLevel:        "info",
	}
}

// ApplyDefaults fills zero-valued fields from DefaultConfig.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()
	if c.Filename == "" {
		c.Filename = def.Filename
	}
	if c.Directory == "" {
		c.Directory = def.Directory
	}
	if c.IntervalMinutes == 0 {
		c.IntervalMinutes = def.IntervalMinutes
	}
	if c.Elevation == "" {
		c.Elevation = def.Elevation
	}
	if c.RunOnStart == nil {
		c.RunOnStart = def.RunOnStart
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Validate checks field formats. An empty source URL is allowed here; it is
// required only when a sync is requested.
func (c *Config) Validate() error {
	if err := ValidateFilename(c.Filename); err != nil {
		return err
	}
	if !filepath.IsAbs(c.Directory) {
		return fmt.Errorf("directory %q must be an absolute path", c.Directory)
	}
	if c.IntervalMinutes < 1 {
		return fmt.Errorf("interval_minutes must be at least 1, got %d", c.IntervalMinutes)
	}
	if _, err := sudo.ParseMode(string(c.Elevation)); err != nil {
		return err
	}
	if c.FetchTimeoutSeconds < 0 {
		return fmt.Errorf("fetch_timeout_seconds must not be negative, got %d", c.FetchTimeoutSeconds)
	}
	if _, err := util.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// ValidateFilename accepts only a bare file name, so every write stays
// inside the configured directory.
func ValidateFilename(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("filename is required")
	case name == "." || name == "..":
		return fmt.Errorf("filename %q is not a file name", name)
	case strings.ContainsAny(name, "/\\\x00\n\r"):
		return fmt.Errorf("filename %q must not contain path separators or control characters", name)
	}
	return nil
}

// Interval returns the sync interval.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// FetchTimeout returns the download timeout; zero means none.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// ShouldRunOnStart reports whether the first periodic sync happens immediately.
func (c *Config) ShouldRunOnStart() bool {
	return c.RunOnStart == nil || *c.RunOnStart
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() log.Level {
	level, err := util.ParseLogLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// LoadConfig reads and parses a configuration file from the given path.
// Applies defaults for missing fields and validates the result.
// A missing file is reported with an error wrapping fs.ErrNotExist.
func LoadConfig(env *util.Env, path string) (Config, error) {
	data, err := readFile(env, path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if isYAML(path) {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SchemaComment is the TOML comment that references the JSON Schema for editor autocomplete.
const SchemaComment = "#:schema https://raw.githubusercontent.com/bolasblack/boxfetch/refs/heads/master/boxfetch-config.schema.json\n\n"

// SaveConfig writes the configuration to the given path. TOML output gets
// the schema comment header and per-field comments.
func SaveConfig(env *util.Env, path string, cfg Config) error {
	var content []byte
	if isYAML(path) {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		content = out
	} else {
		out, err := GenerateConfig(cfg)
		if err != nil {
			return err
		}
		content = []byte(out)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := env.Fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	// The source URL usually embeds a subscription token.
	return writeFile(env, path, content, 0o600)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
