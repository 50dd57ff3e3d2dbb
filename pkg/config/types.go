// Package config provides configuration management for killstats.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("corporation: %d\n", cfg.Tracking.CorporationID)
package config

import (
	"time"
)

// Config represents the complete application configuration.
//
// Invariants:
// - Tracking.EscapePodTypeID must be > 0
// - Endpoints must have non-empty base URLs and user agent
// - Fetch delays and timeouts must be > 0, retry attempts >= 1
// - Fetch.NameBatchSize must be in (0, 1000] (upstream batch ceiling)
// - Storage paths must be non-empty.
type Config struct {
	// Corporation tracking settings
	Tracking TrackingConfig `yaml:"tracking"`

	// Upstream endpoint settings
	Endpoints EndpointsConfig `yaml:"endpoints"`

	// Fetch pacing and retry settings
	Fetch FetchConfig `yaml:"fetch"`

	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// TrackingConfig contains the corporation and filtering settings.
type TrackingConfig struct {
	// Corporation whose kills and losses are aggregated
	CorporationID int64 `yaml:"corporation_id"`

	// Ship type excluded from all statistics (the capsule)
	EscapePodTypeID int64 `yaml:"escape_pod_type_id"`
}

// EndpointsConfig contains upstream API settings.
type EndpointsConfig struct {
	// Killboard list API base URL
	ZKillBase string `yaml:"zkill_base"`

	// Game data API base URL (detail and name endpoints)
	ESIBase string `yaml:"esi_base"`

	// User-Agent sent on every request; the killboard requires one
	UserAgent string `yaml:"user_agent"`
}

// FetchConfig contains rate-limit pacing and retry settings.
type FetchConfig struct {
	// Fixed delay between list pages
	PageDelay time.Duration `yaml:"page_delay"`

	// Base delay before each detail fetch
	DetailDelay time.Duration `yaml:"detail_delay"`

	// Random jitter added on top of DetailDelay
	DetailJitter time.Duration `yaml:"detail_jitter"`

	// Attempts per list page before the run aborts
	RetryAttempts int `yaml:"retry_attempts"`

	// Backoff step: attempt n sleeps n * RetryBackoff
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// HTTP timeout for list and detail calls
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// HTTP timeout for name batch calls
	NameTimeout time.Duration `yaml:"name_timeout"`

	// Maximum IDs per name batch call (upstream ceiling: 1000)
	NameBatchSize int `yaml:"name_batch_size"`
}

// StorageConfig contains storage-related settings.
type StorageConfig struct {
	// Path to BoltDB cache file (killmail partitions + name cache)
	DBPath string `yaml:"db_path"`

	// Directory for rendered reports
	ReportDir string `yaml:"report_dir"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Validate checks if the configuration satisfies all invariants.
//
// Returns an error if any invariant is violated:
//   - Missing escape pod type
//   - Empty endpoint URLs or user agent
//   - Non-positive delays, timeouts, or retry attempts
//   - Name batch size outside (0, 1000]
//   - Empty storage paths
//   - Invalid log level or format
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	if c.Tracking.EscapePodTypeID <= 0 {
		return ErrInvalidEscapePodType
	}

	// Validate endpoint config
	if c.Endpoints.ZKillBase == "" || c.Endpoints.ESIBase == "" {
		return ErrMissingEndpoint
	}
	if c.Endpoints.UserAgent == "" {
		return ErrMissingUserAgent
	}

	// Validate fetch config
	if c.Fetch.PageDelay <= 0 || c.Fetch.DetailDelay <= 0 || c.Fetch.DetailJitter <= 0 {
		return ErrInvalidDelay
	}
	if c.Fetch.RetryAttempts < 1 {
		return ErrInvalidRetryAttempts
	}
	if c.Fetch.RetryBackoff <= 0 {
		return ErrInvalidRetryBackoff
	}
	if c.Fetch.RequestTimeout <= 0 || c.Fetch.NameTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Fetch.NameBatchSize <= 0 || c.Fetch.NameBatchSize > 1000 {
		return ErrInvalidNameBatchSize
	}

	// Validate storage config
	if c.Storage.DBPath == "" {
		return ErrMissingDBPath
	}
	if c.Storage.ReportDir == "" {
		return ErrMissingReportDir
	}

	// Validate logging config
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with sensible default values.
//
// Pacing defaults follow the killboard's published rate-limit
// guidance: 2s between pages, 100-200ms between detail fetches,
// three attempts per page with linear backoff.
func Default() *Config {
	return &Config{
		Tracking: TrackingConfig{
			EscapePodTypeID: 670, // Capsule
		},
		Endpoints: EndpointsConfig{
			ZKillBase: "https://zkillboard.com/api",
			ESIBase:   "https://esi.evetech.net/latest",
			UserAgent: "killstats/1.0 (corporation statistics tool)",
		},
		Fetch: FetchConfig{
			PageDelay:      2000 * time.Millisecond,
			DetailDelay:    100 * time.Millisecond,
			DetailJitter:   100 * time.Millisecond,
			RetryAttempts:  3,
			RetryBackoff:   1000 * time.Millisecond,
			RequestTimeout: 30 * time.Second,
			NameTimeout:    60 * time.Second,
			NameBatchSize:  1000,
		},
		Storage: StorageConfig{
			DBPath:    defaultDBPath(),
			ReportDir: defaultReportDir(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: "text",
		},
	}
}
