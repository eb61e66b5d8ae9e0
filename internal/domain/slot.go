package domain

import "time"

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotPaid      SlotStatus = "paid"
	SlotCompleted SlotStatus = "completed"
	SlotCancelled SlotStatus = "cancelled"
	SlotRejected  SlotStatus = "rejected"
)

// RejectionCause distinguishes why a slot ended up rejected. A dispute
// refund always carries learner evidence and a reason; a reschedule
// cancellation never carries either. Downstream readers rely on the tag
// staying in sync with that evidence trail.
type RejectionCause string

const (
	RejectionDisputed   RejectionCause = "disputed"
	RejectionReschedule RejectionCause = "reschedule"
)

// Slot is a single paid one-on-one session between a tutor and a learner.
type Slot struct {
	ID             int64          `json:"id"`
	BookingPlanID  int64          `json:"booking_plan_id"`
	TutorID        int64          `json:"tutor_id"`
	LearnerID      int64          `json:"learner_id"`
	StartTime      time.Time      `json:"start_time"`
	EndTime        time.Time      `json:"end_time"`
	Status         SlotStatus     `json:"status"`
	RejectionCause RejectionCause `json:"rejection_cause,omitempty"`
	MeetingURL     string         `json:"meeting_url,omitempty"`
	PaymentID      string         `json:"payment_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
