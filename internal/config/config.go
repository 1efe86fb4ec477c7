package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for contract-graph
type Config struct {
	// Extensions lists source file extensions handled by the ast stage.
	Extensions []string `yaml:"extensions" env:"CTG_EXTENSIONS"`

	// CFGPattern is the AST file name suffix the cfg stage processes.
	CFGPattern string `yaml:"cfg_pattern" env:"CTG_CFG_PATTERN"`

	// Jobs bounds how many files are processed concurrently. 1 keeps the
	// stages strictly sequential.
	Jobs int `yaml:"jobs" env:"CTG_JOBS"`

	// BuildFlags are passed to the Go toolchain when compiling a unit to IR
	// for the cpg stage (compilation target, feature flags).
	BuildFlags []string `yaml:"build_flags" env:"CTG_BUILD_FLAGS"`

	// Logging
	Verbose bool `yaml:"verbose" env:"CTG_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extensions: []string{".rs", ".ts", ".js"},
		CFGPattern: ".rs.ast.json",
		Jobs:       1,
		BuildFlags: nil,
		Verbose:    false,
	}
}

// globalConfigFilePath returns the global config file path (~/.ctg/config.yaml)
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ctg/config.yaml"
	}
	return filepath.Join(home, ".ctg", "config.yaml")
}

// projectConfigFilePath returns the project-level config file path (./.ctg/config.yaml)
func projectConfigFilePath() string {
	return ".ctg/config.yaml"
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Project-level config (./.ctg/config.yaml)
// 3. Global config (~/.ctg/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	globalConfigPath := globalConfigFilePath()
	if data, err := os.ReadFile(globalConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", globalConfigPath, err)
		}
	}

	projectConfigPath := projectConfigFilePath()
	if data, err := os.ReadFile(projectConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", projectConfigPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CTG_EXTENSIONS"); v != "" {
		cfg.Extensions = splitList(v)
	}
	if v := os.Getenv("CTG_CFG_PATTERN"); v != "" {
		cfg.CFGPattern = v
	}
	if v := os.Getenv("CTG_JOBS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			cfg.Jobs = i
		}
	}
	if v := os.Getenv("CTG_BUILD_FLAGS"); v != "" {
		cfg.BuildFlags = splitList(v)
	}
	if v := os.Getenv("CTG_VERBOSE"); v != "" {
		cfg.Verbose = v == "true" || v == "1" || v == "yes"
	}
}

// Validate checks that the configuration has valid required fields
func (c *Config) Validate() error {
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions must not be empty")
	}
	for _, ext := range c.Extensions {
		if ext == "" || ext[0] != '.' {
			return fmt.Errorf("invalid extension %q (must start with '.')", ext)
		}
	}
	if c.CFGPattern == "" {
		return fmt.Errorf("cfg_pattern must not be empty")
	}
	if c.Jobs <= 0 {
		return fmt.Errorf("jobs must be positive")
	}
	return nil
}

// splitList splits a comma-separated env value into trimmed entries.
func splitList(v string) []string {
	var out []string
	for _, entry := range strings.Split(v, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
