package broadcast

import "errors"

var (
	// ErrMarshalPayload is returned when a published payload cannot be
	// serialized to JSON.
	ErrMarshalPayload = errors.New("broadcast: failed to marshal payload")

	// ErrBridgeClosed is returned when publishing through a bridge whose
	// relay loop has been stopped.
	ErrBridgeClosed = errors.New("broadcast: bridge is closed")
)
