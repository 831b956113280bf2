// File: config/config.go

// Package config holds the configuration bundle a provider is built from.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/teilomillet/lmbridge/logging"
)

// DefaultTimeout bounds a single request to the inference server.
const DefaultTimeout = 60 * time.Second

// Mapping keys accepted by FromMap and LoadFile.
const (
	KeyServerURL = "server_url"
	KeyModel     = "model"
	KeyAPIKey    = "api_key"
	KeyTimeout   = "timeout"
	KeyLogLevel  = "log_level"
)

// ErrMissingServerURL is returned by Validate when server_url is absent or empty.
var ErrMissingServerURL = errors.New("server_url is required")

var validate = validator.New()

type Config struct {
	ServerURL string           `env:"LMSTUDIO_SERVER_URL" yaml:"server_url" validate:"required,url"`
	Model     string           `env:"LMSTUDIO_MODEL" yaml:"model"`
	APIKey    string           `env:"LMSTUDIO_API_KEY" yaml:"api_key"`
	Timeout   time.Duration    `env:"LMSTUDIO_TIMEOUT" envDefault:"60s" yaml:"timeout" validate:"gt=0"`
	LogLevel  logging.LogLevel `env:"LMSTUDIO_LOG_LEVEL" envDefault:"WARN" yaml:"log_level"`
}

// NewConfig returns a Config with defaults and no server URL.
func NewConfig() *Config {
	return &Config{
		Timeout:  DefaultTimeout,
		LogLevel: logging.LogLevelWarn,
	}
}

// LoadConfig reads LMSTUDIO_* environment variables.
func LoadConfig() (*Config, error) {
	cfg := NewConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// LoadFile reads a YAML file whose keys match the mapping keys.
// Values absent from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.MergeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeFile overlays the values present in a YAML file onto c.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// FromMap builds a Config from a settings mapping. Unknown keys are ignored.
func FromMap(settings map[string]string) (*Config, error) {
	cfg := NewConfig()
	cfg.ServerURL = settings[KeyServerURL]
	cfg.Model = settings[KeyModel]
	cfg.APIKey = settings[KeyAPIKey]

	if raw, ok := settings[KeyTimeout]; ok && raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", KeyTimeout, raw, err)
		}
		cfg.Timeout = timeout
	}

	if raw, ok := settings[KeyLogLevel]; ok && raw != "" {
		level, err := logging.ParseLevel(raw)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// Validate checks the struct tags. A missing server URL is reported as
// ErrMissingServerURL so callers can match it without inspecting tags.
func (c *Config) Validate() error {
	if c == nil || strings.TrimSpace(c.ServerURL) == "" {
		return ErrMissingServerURL
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Clone returns a copy that can be changed without affecting c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

type ConfigOption func(*Config)

func SetServerURL(serverURL string) ConfigOption {
	return func(c *Config) {
		c.ServerURL = serverURL
	}
}

func SetModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

func SetAPIKey(apiKey string) ConfigOption {
	return func(c *Config) {
		c.APIKey = apiKey
	}
}

func SetTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

func SetLogLevel(level logging.LogLevel) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}

func ApplyOptions(cfg *Config, options ...ConfigOption) {
	for _, option := range options {
		option(cfg)
	}
}
