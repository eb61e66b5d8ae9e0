package domain

import "time"

// IsActionable reports whether party actions on the slot are admissible
// at the given instant. The server clock is authoritative: handlers pass
// time.Now() and never trust client-observed time. Every mutating call
// on a slot must pass this check regardless of what the UI showed.
func IsActionable(s *Slot, now time.Time) bool {
	return !now.Before(s.StartTime) && !now.After(s.EndTime)
}

// WindowClosed reports whether the slot's window is over. A dispute left
// pending past this point is surfaced for forced admin resolution.
func WindowClosed(s *Slot, now time.Time) bool {
	return now.After(s.EndTime)
}
