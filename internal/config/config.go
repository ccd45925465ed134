// Package config holds the translator's user-tunable options, loaded from
// a YAML file in the data directory. The default output name is ordinary
// configuration rather than a hidden global: callers receive it from here
// and pass it down explicitly.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultOutputName is the output path used when none is given on the
	// command line. It is the only output path that gets overwritten.
	DefaultOutputName = "output.py"

	defaultIndent      = "    "
	defaultTurtleSpeed = 6
	defaultLogLevel    = "info"
)

type Config struct {
	DefaultOutput string `yaml:"default_output"`
	Indent        string `yaml:"indent"`
	TurtleSpeed   int    `yaml:"turtle_speed"`
	Cache         bool   `yaml:"cache"`
	LogLevel      string `yaml:"log_level"`
	// FreshLog removes the compressed log files on startup instead of
	// appending to them.
	FreshLog bool `yaml:"fresh_log"`
}

func Default() Config {
	return Config{
		DefaultOutput: DefaultOutputName,
		Indent:        defaultIndent,
		TurtleSpeed:   defaultTurtleSpeed,
		Cache:         true,
		LogLevel:      defaultLogLevel,
	}
}

// Load reads the configuration file at path. A missing file is not an
// error; it simply yields the defaults. A file that exists but cannot be
// read or parsed is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.DefaultOutput == "" {
		c.DefaultOutput = DefaultOutputName
	}
	if c.Indent == "" {
		c.Indent = defaultIndent
	}
	if c.TurtleSpeed <= 0 {
		c.TurtleSpeed = defaultTurtleSpeed
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}
