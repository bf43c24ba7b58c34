// Package config handles loading and managing application configuration
// from YAML files, .env files and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/qrgen/qrgen/encoder"
	"github.com/qrgen/qrgen/output"
)

// Config holds all application configuration values.
type Config struct {
	OutputDir      string   `yaml:"output_dir"`
	DataDir        string   `yaml:"data_dir"`
	HistoryEnabled bool     `yaml:"history_enabled"`
	Engine         string   `yaml:"engine"`
	ModuleSize     int      `yaml:"module_size"`
	Border         int      `yaml:"border"`
	Level          string   `yaml:"level"`
	Listen         string   `yaml:"listen"`
	WebhookURL     string   `yaml:"webhook_url"`
	WebhookTimeout Duration `yaml:"webhook_timeout"`
	LogLevel       string   `yaml:"log_level"`
}

// Duration is a wrapper around time.Duration that supports YAML unmarshalling
// from human-readable strings like "30s", "5m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &Config{
		OutputDir:      output.DefaultDir,
		DataDir:        filepath.Join(homeDir, ".qrgen"),
		HistoryEnabled: true,
		Engine:         encoder.EngineSkip2,
		ModuleSize:     encoder.DefaultModuleSize,
		Border:         encoder.DefaultBorder,
		Level:          string(encoder.DefaultLevel),
		Listen:         "127.0.0.1:8556",
		WebhookTimeout: Duration{10 * time.Second},
		LogLevel:       "info",
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. A .env file in the working directory
// is loaded first; QRGEN_* environment variables then override file and
// default values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Missing file: keep defaults.
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies QRGEN_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QRGEN_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("QRGEN_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("QRGEN_ENGINE"); v != "" {
		cfg.Engine = v
	}
	if v := os.Getenv("QRGEN_MODULE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ModuleSize = n
		}
	}
	if v := os.Getenv("QRGEN_BORDER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Border = n
		}
	}
	if v := os.Getenv("QRGEN_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("QRGEN_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("QRGEN_WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv("QRGEN_WEBHOOK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.WebhookTimeout = Duration{d}
		}
	}
	if v := os.Getenv("QRGEN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QRGEN_HISTORY"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			cfg.HistoryEnabled = true
		case "false", "0", "no":
			cfg.HistoryEnabled = false
		}
	}
}

// Options returns the encoding options described by the config.
func (c *Config) Options() (encoder.Options, error) {
	level, err := encoder.ParseLevel(c.Level)
	if err != nil {
		return encoder.Options{}, err
	}
	opts := encoder.Options{
		ModuleSize: c.ModuleSize,
		Border:     c.Border,
		Level:      level,
	}
	if err := opts.Validate(); err != nil {
		return encoder.Options{}, err
	}
	return opts, nil
}

// Validate checks the encoding settings and the engine name.
func (c *Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := encoder.New(c.Engine); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// HistoryPath is the location of the history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// EnsureDataDir creates DataDir if it does not already exist.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", c.DataDir, err)
	}
	return nil
}
