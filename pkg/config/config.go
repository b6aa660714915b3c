// Package config handles staticd configuration: loading from file and
// environment, defaults, validation, and the content store factory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the complete staticd configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (STATICD_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
//
// Store Configuration Pattern:
// The content section selects a store type; only the map section matching
// the selected type is decoded, by the factory in factories.go.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Server contains listener and worker pool settings
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Serve controls how requests map onto content
	Serve ServeConfig `mapstructure:"serve" yaml:"serve"`

	// Content specifies the content store type and type-specific
	// configuration
	Content ContentConfig `mapstructure:"content" yaml:"content"`

	// Metrics controls the Prometheus metrics endpoint
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// ServerConfig contains listener and worker pool settings.
type ServerConfig struct {
	// Address is the interface to bind
	Address string `mapstructure:"address" yaml:"address" validate:"required"`

	// Port is the TCP port to listen on
	Port int `mapstructure:"port" yaml:"port" validate:"required,gt=0,lte=65535"`

	// Threads is the number of pool workers handling connections
	Threads int `mapstructure:"threads" yaml:"threads" validate:"required,gt=0"`

	// Verbose enables per-request access logging
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`

	// RequestsPerSecond caps the sustained accept rate; 0 disables
	// limiting
	RequestsPerSecond uint `mapstructure:"requests_per_second" yaml:"requests_per_second"`

	// Burst is the rate limiter burst size; 0 means same as
	// RequestsPerSecond
	Burst uint `mapstructure:"burst" yaml:"burst"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"required,gt=0"`
}

// ServeConfig controls how requests map onto content.
type ServeConfig struct {
	// ListDir enables directory listings. When false, directory
	// requests are denied.
	ListDir bool `mapstructure:"list_dir" yaml:"list_dir"`

	// IndexFile is the file served for the bare "/" request
	IndexFile string `mapstructure:"index_file" yaml:"index_file" validate:"required"`
}

// ContentConfig specifies content store configuration.
//
// The Type field determines which store implementation is used. Only the
// corresponding type-specific section is decoded.
type ContentConfig struct {
	// Type specifies which content store implementation to use
	// Valid values: filesystem, memory, s3
	Type string `mapstructure:"type" yaml:"type" validate:"required,oneof=filesystem memory s3"`

	// Filesystem contains filesystem-specific configuration
	// Only used when Type = "filesystem"
	Filesystem map[string]any `mapstructure:"filesystem" yaml:"filesystem"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory" yaml:"memory"`

	// S3 contains S3-specific configuration
	// Only used when Type = "s3"
	S3 map[string]any `mapstructure:"s3" yaml:"s3"`

	// Cache wraps the selected store with a Badger read cache
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`
}

// CacheConfig configures the Badger read cache.
type CacheConfig struct {
	// Enabled turns the cache on
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Path is the Badger database directory. Required when Enabled.
	Path string `mapstructure:"path" yaml:"path"`

	// TTL is how long cached reads stay valid; 0 means forever
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled turns metrics collection and the /metrics endpoint on
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the metrics HTTP server port
	Port int `mapstructure:"port" yaml:"port" validate:"gte=0,lte=65535"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (STATICD_*)
//  2. Configuration file
//  3. Default values
//
// configPath selects the config file; an empty string uses the default
// location ($XDG_CONFIG_HOME/staticd/config.yaml).
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the STATICD_ prefix and underscores.
	// Example: STATICD_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("STATICD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans whose default is true must be registered here: a zero
	// value after unmarshal is indistinguishable from an explicit false.
	v.SetDefault("serve.list_dir", true)
	v.SetDefault("server.verbose", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Missing config file is fine, defaults apply.
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "staticd")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "staticd")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// Dump renders the configuration as YAML, in the same shape Load reads.
func (c *Config) Dump() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(out), nil
}
