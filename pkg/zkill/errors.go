package zkill

import "errors"

// Common errors returned by the zkill package.
var (
	// ErrPageFetch is returned when a list page cannot be fetched after
	// all retries. Pagination integrity is lost at that point, so the
	// caller must abort the run rather than under-report.
	ErrPageFetch = errors.New("list page fetch failed")

	// ErrMissingBaseURL is returned when the client has no base URL.
	ErrMissingBaseURL = errors.New("missing killboard base URL")

	// ErrMissingUserAgent is returned when the client has no user agent.
	ErrMissingUserAgent = errors.New("missing user agent")
)
