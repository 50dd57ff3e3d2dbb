package killmail

import "errors"

// Common errors returned by the killmail package.
var (
	// ErrInvalidID is returned when a record has a non-positive killmail ID.
	ErrInvalidID = errors.New("invalid killmail ID: must be > 0")

	// ErrMissingHash is returned when a record has no content hash.
	ErrMissingHash = errors.New("missing killmail hash")

	// ErrMissingVictimShip is returned when a record has no victim ship type.
	ErrMissingVictimShip = errors.New("missing victim ship type")

	// ErrMalformedPayload is returned when an API payload cannot be decoded.
	ErrMalformedPayload = errors.New("malformed killmail payload")
)
