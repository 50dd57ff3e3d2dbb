package esi

import "errors"

// Common errors returned by the esi package.
var (
	// ErrNotFound is returned when the detail endpoint reports no such
	// record (404). Non-fatal: the caller skips the record.
	ErrNotFound = errors.New("killmail not found")

	// ErrDetailFetch is returned when a detail fetch fails for any
	// other reason. Non-fatal: the record is skipped and retried on
	// the next run, since it never enters the cache.
	ErrDetailFetch = errors.New("killmail detail fetch failed")

	// ErrMissingBaseURL is returned when a client has no base URL.
	ErrMissingBaseURL = errors.New("missing ESI base URL")

	// ErrMissingUserAgent is returned when a client has no user agent.
	ErrMissingUserAgent = errors.New("missing user agent")
)
