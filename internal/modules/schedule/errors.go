package schedule

import "errors"

var (
	ErrNotTutor      = errors.New("caller is not a tutor")
	ErrInvalidWindow = errors.New("availability window is malformed")
)
