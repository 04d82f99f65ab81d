package notification

import "errors"

var (
	// ErrInvalidInput is returned before any lookup or write when the
	// payload or the recipient reference is unusable.
	ErrInvalidInput = errors.New("invalid notification input")
	// ErrRecipientNotFound means resolution matched no account. It is an
	// expected outcome, not a subsystem failure.
	ErrRecipientNotFound = errors.New("recipient not found")
	// ErrNotificationNotFound means no notification has the given id.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrStorageUnavailable wraps persistence or directory failures.
	ErrStorageUnavailable = errors.New("notification storage unavailable")
)
