package arbiter

import "errors"

var (
	ErrNotFound        = errors.New("dispute not found")
	ErrAlreadyResolved = errors.New("dispute already resolved")
	ErrWindowStillOpen = errors.New("tutor response window still open")
	ErrInvalidOutcome  = errors.New("unknown decision outcome")
)
