package shell

import "errors"

var (
	// ErrHostWindowMissing is returned when a lifecycle command cannot
	// locate the host window. Recoverable at the command level.
	ErrHostWindowMissing = errors.New("shell: host window not found")

	// ErrInvalidURL is returned when a requested URL cannot be parsed
	// after normalization. Caller input error.
	ErrInvalidURL = errors.New("shell: invalid URL")
)
