package booking

import "errors"

var (
	ErrNotFound            = errors.New("slot not found")
	ErrTutorNotFound       = errors.New("tutor not found")
	ErrInvalidTimes        = errors.New("invalid slot times")
	ErrOutsideAvailability = errors.New("slot is outside the tutor's availability")
	ErrOverlap             = errors.New("slot overlaps an existing booking")
	ErrNotCancellable      = errors.New("slot can no longer be cancelled")
	ErrNotAuthorized       = errors.New("caller is not a party on this slot")
)
