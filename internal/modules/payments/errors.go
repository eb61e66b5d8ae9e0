package payments

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrNotPayable       = errors.New("slot is not awaiting payment")
)
