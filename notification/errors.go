package notification

import "errors"

var (
	// ErrMissingRecipientID is returned when a row offered for creation has
	// no recipient.
	ErrMissingRecipientID = errors.New("notification: recipient id is required")

	// ErrInvalidPagination is returned for non-positive page or pageSize.
	ErrInvalidPagination = errors.New("notification: page and page size must be positive")

	// ErrCreateFailed wraps persistence failures during bulk creation.
	ErrCreateFailed = errors.New("notification: failed to create rows")

	// ErrQueryFailed wraps persistence failures during reads.
	ErrQueryFailed = errors.New("notification: query failed")

	// ErrUpdateFailed wraps persistence failures during mutations.
	ErrUpdateFailed = errors.New("notification: update failed")
)
