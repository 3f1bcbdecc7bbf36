package lease

import "errors"

// Sentinel errors returned as values next to empty results. Callers are
// expected to render an empty view with the message rather than abort.
var (
	// ErrSourceNotFound means the lease file does not exist.
	ErrSourceNotFound = errors.New("lease file not found")

	// ErrReadFailure means the lease file exists but could not be read
	// or parsed; the wrapped message carries the underlying cause.
	ErrReadFailure = errors.New("error reading lease file")
)
