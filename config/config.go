// Package config loads the TOML configuration shared by the esparse command
// line tools.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/example/esparse/parser"
)

// Config holds the complete tool configuration
type Config struct {
	Parser ParserConfig `toml:"parser"`
	Output OutputConfig `toml:"output"`
	Runner RunnerConfig `toml:"runner"`
	Log    LogConfig    `toml:"log"`
}

// ParserConfig mirrors parser.Options
type ParserConfig struct {
	SourceType    string `toml:"source_type"`
	AllowHashBang bool   `toml:"allow_hash_bang"`
	Comments      bool   `toml:"comments"`
	CheckRegExp   bool   `toml:"check_regexp"`
}

// OutputConfig controls how esparse prints trees and diagnostics
type OutputConfig struct {
	Format string `toml:"format"` // json or pretty
	Indent string `toml:"indent"`
	Color  bool   `toml:"color"`
}

// RunnerConfig holds conformance runner settings
type RunnerConfig struct {
	Dir       string   `toml:"dir"`
	Filter    string   `toml:"filter"`
	Limit     int      `toml:"limit"`
	Workers   int      `toml:"workers"`
	Timeout   Duration `toml:"timeout"`
	CacheSize int      `toml:"cache_size"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			SourceType:    parser.SourceScript,
			AllowHashBang: true,
		},
		Output: OutputConfig{
			Format: "json",
			Indent: "  ",
		},
		Runner: RunnerConfig{
			Workers:   4,
			Timeout:   Duration{5 * time.Second},
			CacheSize: 1024,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load reads configuration from a TOML file. Keys missing from the file keep
// their defaults, and a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	path = os.ExpandEnv(path)
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from the ESPARSE_CONFIG environment
// variable, then from the usual locations.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("ESPARSE_CONFIG")
	if path == "" {
		defaultPaths := []string{
			"./esparse.toml",
			filepath.Join(os.Getenv("HOME"), ".config/esparse/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	return Load(path)
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Parser.SourceType {
	case parser.SourceScript, parser.SourceModule:
	default:
		return errors.Errorf("unknown source_type %q", c.Parser.SourceType)
	}
	switch c.Output.Format {
	case "json", "pretty":
	default:
		return errors.Errorf("unknown output format %q", c.Output.Format)
	}
	if c.Runner.Workers < 1 {
		return errors.Errorf("runner workers must be positive, got %d", c.Runner.Workers)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}

// ParserOptions converts the [parser] table into parser options.
func (c *Config) ParserOptions() []parser.Option {
	opts := []parser.Option{
		parser.WithSourceType(c.Parser.SourceType),
		parser.WithHashBang(c.Parser.AllowHashBang),
	}
	if c.Parser.Comments {
		opts = append(opts, parser.WithComments())
	}
	if c.Parser.CheckRegExp {
		opts = append(opts, parser.WithRegExpCheck())
	}
	return opts
}

// LogLevel returns the configured zerolog level, or warn when it does not
// parse.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return zerolog.WarnLevel
	}
	return level
}
