package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config defines the format of the jtool configuration file.
type Config struct {
	// C++ standard passed to CMake (CMAKE_CXX_STANDARD)
	CxxStandard int `toml:"cxx-standard"`
	// Version in cmake_minimum_required
	CMakeMinimum string      `toml:"cmake-minimum"`
	Conan        ConanConfig `toml:"conan"`
}

type ConanConfig struct {
	Binary string `toml:"binary"`
	Remote string `toml:"remote"`
	// Limit on each conan invocation, as a Go duration (e.g. "10m")
	Timeout string `toml:"timeout"`

	timeout time.Duration
}

// TimeoutDuration returns the parsed conan timeout.
func (c ConanConfig) TimeoutDuration() time.Duration {
	return c.timeout
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	if err := cfg.normalize(); err != nil {
		panic(fmt.Errorf("default config does not normalize: %w", err))
	}
	return cfg
}

func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if c.CxxStandard == 0 {
		c.CxxStandard = 20
	}
	if c.CMakeMinimum == "" {
		c.CMakeMinimum = "3.25"
	}
	if c.Conan.Binary == "" {
		c.Conan.Binary = "conan"
	}
	if c.Conan.Remote == "" {
		c.Conan.Remote = "conancenter"
	}
	if c.Conan.Timeout == "" {
		c.Conan.Timeout = "10m"
	}
	timeout, err := time.ParseDuration(c.Conan.Timeout)
	if err != nil {
		return fmt.Errorf("invalid conan timeout %q: %w", c.Conan.Timeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("conan timeout must be positive, got %s", c.Conan.Timeout)
	}
	c.Conan.timeout = timeout
	return nil
}

// SetConanTimeout overrides the conan timeout.
func (c *Config) SetConanTimeout(timeout string) error {
	c.Conan.Timeout = timeout
	return c.normalize()
}

// Load reads the config file at path. A missing file gives the defaults.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(contents))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the config file location under the user config
// directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "jtool.toml"
	}
	return filepath.Join(dir, "jtool", "config.toml")
}
