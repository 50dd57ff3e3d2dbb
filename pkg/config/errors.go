package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrInvalidEscapePodType is returned when the escape pod type ID is <= 0.
	ErrInvalidEscapePodType = errors.New("invalid escape pod type ID: must be > 0")

	// ErrMissingEndpoint is returned when a base URL is empty.
	ErrMissingEndpoint = errors.New("missing endpoint base URL")

	// ErrMissingUserAgent is returned when no user agent is configured.
	ErrMissingUserAgent = errors.New("missing user agent: killboard requires one")

	// ErrInvalidDelay is returned when a pacing delay is <= 0.
	ErrInvalidDelay = errors.New("invalid fetch delay: must be > 0")

	// ErrInvalidRetryAttempts is returned when retry attempts is < 1.
	ErrInvalidRetryAttempts = errors.New("invalid retry attempts: must be >= 1")

	// ErrInvalidRetryBackoff is returned when retry backoff is <= 0.
	ErrInvalidRetryBackoff = errors.New("invalid retry backoff: must be > 0")

	// ErrInvalidTimeout is returned when an HTTP timeout is <= 0.
	ErrInvalidTimeout = errors.New("invalid timeout: must be > 0")

	// ErrInvalidNameBatchSize is returned when the batch size is outside (0, 1000].
	ErrInvalidNameBatchSize = errors.New("invalid name batch size: must be in (0, 1000]")

	// ErrMissingDBPath is returned when no database path is configured.
	ErrMissingDBPath = errors.New("missing database path")

	// ErrMissingReportDir is returned when no report directory is configured.
	ErrMissingReportDir = errors.New("missing report directory")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")

	// ErrInvalidCorporation is returned when a corporation ID is missing or
	// non-numeric. Fatal at startup, before any network activity.
	ErrInvalidCorporation = errors.New("invalid corporation ID: must be a positive integer")

	// ErrInvalidPeriod is returned when year or month is out of range.
	ErrInvalidPeriod = errors.New("invalid period: year must be >= 2003, month in 1..12")
)
