package domain

import "time"

type DisputeStatus string

const (
	// DisputePending: learner filed, tutor has not answered yet.
	DisputePending DisputeStatus = "pending"
	// DisputeSubmitted: tutor answered (contest or agreed refund),
	// case waits for an admin decision.
	DisputeSubmitted DisputeStatus = "submitted"
	// DisputeResolved: closed by an admin decision. The only terminal state.
	DisputeResolved DisputeStatus = "resolved"
)

type DisputeOutcome string

const (
	OutcomeRefund DisputeOutcome = "refund"
	OutcomeDeny   DisputeOutcome = "deny"
)

// DisputeCase is a learner claim that the tutor did not attend a paid
// slot. At most one open (pending/submitted) case may exist per slot.
type DisputeCase struct {
	ID         int64          `json:"id"`
	SlotID     int64          `json:"slot_id"`
	RaisedBy   int64          `json:"raised_by"`
	Reason     string         `json:"reason"`
	Status     DisputeStatus  `json:"status"`
	Outcome    DisputeOutcome `json:"outcome,omitempty"`
	AdminNote  string         `json:"admin_note,omitempty"`
	ResolvedBy *int64         `json:"resolved_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
}

func (d DisputeCase) Open() bool {
	return d.Status == DisputePending || d.Status == DisputeSubmitted
}
