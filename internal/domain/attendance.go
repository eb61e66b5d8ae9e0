package domain

import "time"

type Party string

const (
	PartyTutor   Party = "tutor"
	PartyLearner Party = "learner"
)

// AttendanceRecord holds one party's claim about a slot. Records are
// append-only: once Attended is set it never changes through a party
// action, only through admin-mediated repair.
type AttendanceRecord struct {
	ID          int64      `json:"id"`
	SlotID      int64      `json:"slot_id"`
	Party       Party      `json:"party"`
	Attended    *bool      `json:"attended"`
	EvidenceID  *string    `json:"evidence_id,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Responded reports whether the party has recorded a terminal claim.
func (r AttendanceRecord) Responded() bool { return r.Attended != nil }

func (r AttendanceRecord) AttendedTrue() bool { return r.Attended != nil && *r.Attended }

func (r AttendanceRecord) HasEvidence() bool { return r.EvidenceID != nil && *r.EvidenceID != "" }
