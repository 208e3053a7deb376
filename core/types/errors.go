package types

import "github.com/pkg/errors"

// Error taxonomy surfaced to callers. Every failed operation wraps exactly
// one of these sentinels, so callers branch with errors.Is while the wrapped
// message names the specific check that failed.
var (
	// ErrInvalidParams rejects malformed arguments and operations applied to
	// a stream whose state does not permit them.
	ErrInvalidParams = errors.New("invalid params")

	// ErrStreamNotFound rejects operations on an unknown (or expired)
	// stream id.
	ErrStreamNotFound = errors.New("stream not found")

	// ErrNotAuthorized rejects calls the required principal did not approve.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrAlreadyInitialized rejects a second Init.
	ErrAlreadyInitialized = errors.New("already initialised")

	// ErrNotInitialized rejects configuration reads before Init has run.
	ErrNotInitialized = errors.New("not initialised")
)
