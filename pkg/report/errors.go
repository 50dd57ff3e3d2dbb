package report

import "errors"

var (
	// ErrInvalidFormat indicates an unknown output format name.
	ErrInvalidFormat = errors.New("invalid report format")

	// ErrEmptyDir indicates WriteReport was called without a directory.
	ErrEmptyDir = errors.New("report directory not specified")
)
