package cache

import "errors"

// Common errors returned by the cache package.
var (
	// ErrInvalidPartition is returned when a partition key is malformed.
	ErrInvalidPartition = errors.New("invalid partition: corporation, period, and kind must be set")
)
