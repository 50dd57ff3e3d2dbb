package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile loads configuration from a specific file.
	LoadFromFile(path string) (*Config, error)
}

// loader implements the Loader interface.
type loader struct {
	configPath string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, searches for config file in:
// 1. ./config.yaml (current directory)
// 2. ~/.config/killstats/config.yaml.
func NewLoader(configPath string) Loader {
	return &loader{
		configPath: configPath,
	}
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	// Start with default configuration
	cfg := Default()

	// Find config file path
	configPath := l.configPath
	if configPath == "" {
		configPath = l.findConfigFile()
	}

	// Load from file if it exists
	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// If file is specified but can't be loaded, return error
			if l.configPath != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
			// Otherwise, just use defaults
		} else {
			cfg = l.mergeConfigs(cfg, fileCfg)
		}
	}

	// Apply environment variable overrides
	cfg = l.applyEnvVars(cfg)

	// Validate final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

// findConfigFile searches for a config file in standard locations.
//
// Searches in order:
// 1. ./config.yaml
// 2. ~/.config/killstats/config.yaml
//
// Returns empty string if no config file is found.
func (l *loader) findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		defaultConfigPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// mergeConfigs merges file configuration into default configuration.
//
// File values override defaults, but only if they are non-zero.
func (l *loader) mergeConfigs(base, override *Config) *Config {
	result := *base

	// Merge tracking config
	if override.Tracking.CorporationID > 0 {
		result.Tracking.CorporationID = override.Tracking.CorporationID
	}
	if override.Tracking.EscapePodTypeID > 0 {
		result.Tracking.EscapePodTypeID = override.Tracking.EscapePodTypeID
	}

	// Merge endpoint config
	if override.Endpoints.ZKillBase != "" {
		result.Endpoints.ZKillBase = override.Endpoints.ZKillBase
	}
	if override.Endpoints.ESIBase != "" {
		result.Endpoints.ESIBase = override.Endpoints.ESIBase
	}
	if override.Endpoints.UserAgent != "" {
		result.Endpoints.UserAgent = override.Endpoints.UserAgent
	}

	// Merge fetch config
	if override.Fetch.PageDelay > 0 {
		result.Fetch.PageDelay = override.Fetch.PageDelay
	}
	if override.Fetch.DetailDelay > 0 {
		result.Fetch.DetailDelay = override.Fetch.DetailDelay
	}
	if override.Fetch.DetailJitter > 0 {
		result.Fetch.DetailJitter = override.Fetch.DetailJitter
	}
	if override.Fetch.RetryAttempts > 0 {
		result.Fetch.RetryAttempts = override.Fetch.RetryAttempts
	}
	if override.Fetch.RetryBackoff > 0 {
		result.Fetch.RetryBackoff = override.Fetch.RetryBackoff
	}
	if override.Fetch.RequestTimeout > 0 {
		result.Fetch.RequestTimeout = override.Fetch.RequestTimeout
	}
	if override.Fetch.NameTimeout > 0 {
		result.Fetch.NameTimeout = override.Fetch.NameTimeout
	}
	if override.Fetch.NameBatchSize > 0 {
		result.Fetch.NameBatchSize = override.Fetch.NameBatchSize
	}

	// Merge storage config
	if override.Storage.DBPath != "" {
		result.Storage.DBPath = override.Storage.DBPath
	}
	if override.Storage.ReportDir != "" {
		result.Storage.ReportDir = override.Storage.ReportDir
	}

	// Merge logging config
	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	return &result
}

// applyEnvVars applies environment variable overrides to the configuration.
//
// Supported environment variables:
//   - KILLSTATS_CORPORATION: Default corporation ID
//   - KILLSTATS_DB: Path to cache database file
//   - KILLSTATS_USER_AGENT: User agent for outbound requests
//   - KILLSTATS_LOG_LEVEL: Log level
func (l *loader) applyEnvVars(cfg *Config) *Config {
	result := *cfg

	// KILLSTATS_CORPORATION: default corporation ID
	if corp := os.Getenv("KILLSTATS_CORPORATION"); corp != "" {
		if id, err := strconv.ParseInt(strings.TrimSpace(corp), 10, 64); err == nil && id > 0 {
			result.Tracking.CorporationID = id
		}
	}

	// KILLSTATS_DB: cache database path
	if dbPath := os.Getenv("KILLSTATS_DB"); dbPath != "" {
		result.Storage.DBPath = dbPath
	}

	// KILLSTATS_USER_AGENT: outbound user agent
	if ua := os.Getenv("KILLSTATS_USER_AGENT"); ua != "" {
		result.Endpoints.UserAgent = ua
	}

	// KILLSTATS_LOG_LEVEL: log level
	if logLevel := os.Getenv("KILLSTATS_LOG_LEVEL"); logLevel != "" {
		result.Logging.Level = strings.ToLower(logLevel)
	}

	return &result
}

// Load is a convenience function that creates a loader and loads configuration.
//
// Equivalent to:
//
//	loader := NewLoader("")
//	return loader.Load()
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadPath loads configuration from an explicit path, falling back to
// the standard search locations when path is empty.
func LoadPath(path string) (*Config, error) {
	return NewLoader(path).Load()
}
