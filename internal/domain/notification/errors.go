package notification

import "errors"

var (
	// ErrInvalidInput indicates missing or malformed notification input.
	ErrInvalidInput = errors.New("invalid notification input")
	// ErrNotFound indicates the notification doesn't exist for the user.
	ErrNotFound = errors.New("notification not found")
	// ErrMissingCapability indicates the store can't perform a required mutation.
	ErrMissingCapability = errors.New("notification store lacks required capability")
	// ErrUnsupported indicates an optional operation the store can't perform.
	ErrUnsupported = errors.New("operation not supported by notification store")
)
