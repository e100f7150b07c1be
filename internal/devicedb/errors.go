package devicedb

import "errors"

var (
	ErrNoDatabase      = errors.New("no device database available")
	ErrInvalidDatabase = errors.New("invalid device database")
	ErrFetchFailed     = errors.New("failed to fetch device database")
	ErrCacheWrite      = errors.New("failed to write device database cache")
)
