package redis

import "errors"

var (
	// ErrFailedToParseConnString is returned for malformed Redis URLs.
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")
	// ErrNotReady is returned when the server cannot be reached within the
	// configured retry budget.
	ErrNotReady = errors.New("redis is not ready")
	// ErrHealthcheckFailed is returned when a ping fails at runtime.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
