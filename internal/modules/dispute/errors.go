package dispute

import "errors"

var (
	ErrNotFound          = errors.New("dispute or slot not found")
	ErrNotAuthorized     = errors.New("caller is not a party on this slot")
	ErrOutsideTimeWindow = errors.New("action outside the slot time window")
	ErrAlreadyResponded  = errors.New("party response already recorded")
	ErrInvalidTransition = errors.New("action not valid from current state")
	ErrEvidenceRequired  = errors.New("evidence reference required")
	ErrEvidenceMissing   = errors.New("evidence reference does not resolve")
	ErrValidation        = errors.New("validation error")
)
