package attendance

import "errors"

var (
	ErrNotFound          = errors.New("slot not found")
	ErrNotAuthorized     = errors.New("caller is not a party on this slot")
	ErrOutsideTimeWindow = errors.New("action outside the slot time window")
	ErrAlreadyResponded  = errors.New("attendance already recorded for this party")
	ErrInvalidTransition = errors.New("attendance not valid from current state")
	ErrEvidenceRequired  = errors.New("evidence reference required")
	ErrEvidenceMissing   = errors.New("evidence reference does not resolve")
)
