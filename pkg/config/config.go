// Package config loads the symbem configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/chazu/symbem/pkg/design"
	"github.com/chazu/symbem/pkg/kernel"
	"gopkg.in/yaml.v3"
)

// Config holds all symbem configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Assembly AssemblyConfig `yaml:"assembly"`
	Kernel   KernelConfig   `yaml:"kernel"`
	Body     *design.Node   `yaml:"body,omitempty"`
}

// AssemblyConfig configures the symmetry-aware assembler.
type AssemblyConfig struct {
	Concurrency int    `yaml:"concurrency"` // sibling blocks evaluated in parallel per node
	Check       bool   `yaml:"check"`       // compare against brute-force assembly
	Timeout     string `yaml:"timeout"`     // overall deadline, e.g. "30s"; empty for none
}

// KernelConfig selects the base evaluator.
type KernelConfig struct {
	Name string `yaml:"name"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Assembly: AssemblyConfig{
			Concurrency: 1,
		},
		Kernel: KernelConfig{
			Name: "rankine",
		},
	}
}

// Load loads configuration from a YAML file over the defaults. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("SYMBEM_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if n, err := strconv.Atoi(os.Getenv("SYMBEM_CONCURRENCY")); err == nil {
		c.Assembly.Concurrency = n
	}
}

// GetTimeout returns the assembly deadline, or 0 when none is set.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Assembly.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Validate checks value ranges. It does not validate the body; see
// design.Validate.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("config: invalid logging format %q (valid: console, json)", c.Logging.Format)
	}
	if c.Assembly.Concurrency < 1 {
		return fmt.Errorf("config: assembly concurrency must be at least 1, got %d", c.Assembly.Concurrency)
	}
	if c.Assembly.Timeout != "" {
		if _, err := time.ParseDuration(c.Assembly.Timeout); err != nil {
			return fmt.Errorf("config: invalid assembly timeout: %w", err)
		}
	}
	if _, err := kernel.Lookup(c.Kernel.Name); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
