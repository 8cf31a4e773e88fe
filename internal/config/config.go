// Package config handles configuration loading from YAML files, .env files
// and environment variables.
// Configuration precedence: CLI flags > environment variables > .env > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all bin2c configuration.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig holds header generation settings.
type OutputConfig struct {
	Progmem       bool   `yaml:"progmem"`
	StrictSymbols bool   `yaml:"strict_symbols"`
	Dir           string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Progmem:       false,
			StrictSymbols: false,
			Dir:           "",
		},
		Logging: LoggingConfig{
			Level:     "warn",
			File:      "",
			MaxSizeMB: 10,
		},
	}
}

// CLIOverrides holds values from command-line flags.
// False booleans and empty strings are treated as "not set" and skipped.
type CLIOverrides struct {
	Progmem       bool
	StrictSymbols bool
	OutputDir     string
	LogLevel      string
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	candidates := append([]string{"bin2c.yaml"}, configSearchPaths()...)
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set are left alone; a missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// LoadLayered loads configuration with the full precedence chain:
// CLI flags > env vars > YAML file > defaults.
//
// An optional configPath argument controls file discovery:
//   - omitted        → auto-discover via Locate()
//   - explicit value  → use that path ("" means no file); it must exist
func LoadLayered(cli CLIOverrides, configPath ...string) (*Config, error) {
	cfg := DefaultConfig()

	var filePath string
	explicit := len(configPath) > 0
	if explicit {
		filePath = configPath[0]
	} else {
		filePath = Locate()
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cli.Progmem {
		cfg.Output.Progmem = true
	}
	if cli.StrictSymbols {
		cfg.Output.StrictSymbols = true
	}
	if cli.OutputDir != "" {
		cfg.Output.Dir = cli.OutputDir
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}

	return cfg, nil
}

// WriteConfig serializes the config to a YAML file at the given path.
// Creates parent directories if needed.
func WriteConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("BIN2C_PROGMEM"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid BIN2C_PROGMEM %q: %w", v, err)
		}
		cfg.Output.Progmem = b
	}
	if v := os.Getenv("BIN2C_STRICT_SYMBOLS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid BIN2C_STRICT_SYMBOLS %q: %w", v, err)
		}
		cfg.Output.StrictSymbols = b
	}
	if dir := os.Getenv("BIN2C_OUTPUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
	if level := os.Getenv("BIN2C_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if file := os.Getenv("BIN2C_LOG_FILE"); file != "" {
		cfg.Logging.File = file
	}
	return nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 {
		return fmt.Errorf("logging.max_size_mb must not be negative (got: %d)", c.Logging.MaxSizeMB)
	}
	return nil
}
