package cache

import "errors"

var (
	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrBackendUnavailable wraps connection failures to Redis or MongoDB.
	ErrBackendUnavailable = errors.New("cache backend unavailable")
)
