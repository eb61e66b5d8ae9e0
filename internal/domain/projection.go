package domain

import (
	"errors"
	"fmt"
)

// SlotView is the single canonical label every reader renders. UI,
// reporting and the websocket feed all go through Project; nobody
// re-derives status from raw flags.
type SlotView string

const (
	ViewAvailable            SlotView = "available"
	ViewBooked               SlotView = "booked"
	ViewPaid                 SlotView = "paid"
	ViewCompleted            SlotView = "completed"
	ViewCancelled            SlotView = "cancelled"
	ViewDisputeAwaitingTutor SlotView = "dispute_awaiting_tutor"
	ViewDisputeContested     SlotView = "dispute_tutor_contested"
	ViewDisputeAgreedRefund  SlotView = "dispute_tutor_agreed_refund"
	ViewDisputeDenied        SlotView = "dispute_denied"
	ViewRefundedDisputed     SlotView = "refunded_disputed"
	ViewCancelledReschedule  SlotView = "cancelled_reschedule"
)

// ErrInvariantViolation marks a flag combination the state machine cannot
// produce. It is the only fatal error in the subsystem: the slot is frozen
// for automatic processing until repaired out of band.
var ErrInvariantViolation = errors.New("slot state invariant violation")

func violation(slotID int64, format string, args ...interface{}) error {
	return fmt.Errorf("%w: slot=%d: %s", ErrInvariantViolation, slotID, fmt.Sprintf(format, args...))
}

// Project maps the raw flag tuple of a slot to its canonical view. It is
// pure and total: every input yields either a view or an invariant
// violation, never a guess. An open dispute is one in pending/submitted.
func Project(s *Slot, tutor, learner AttendanceRecord, dispute *DisputeCase) (SlotView, error) {
	openDispute := dispute != nil && dispute.Open()

	// A refund agreement carries no tutor evidence; evidence next to an
	// explicit "did not attend" is contradictory.
	if tutor.Responded() && !*tutor.Attended && tutor.HasEvidence() {
		return "", violation(s.ID, "tutor agreed refund but evidence %q is attached", *tutor.EvidenceID)
	}

	// learner.attended=false exists only as the terminal half of a filed
	// dispute; without any case on record it cannot have been written.
	if learner.Responded() && !*learner.Attended && dispute == nil {
		return "", violation(s.ID, "learner marked absent but no dispute case exists")
	}

	if openDispute {
		if s.Status != SlotPaid {
			return "", violation(s.ID, "open dispute on slot in status %q", s.Status)
		}
		if !learner.Responded() || *learner.Attended {
			return "", violation(s.ID, "open dispute while learner attendance is %v", learner.Attended)
		}
		if !learner.HasEvidence() || dispute.Reason == "" {
			return "", violation(s.ID, "open dispute without learner evidence or reason")
		}
		if tutor.AttendedTrue() && learner.AttendedTrue() {
			return "", violation(s.ID, "both parties attended while a dispute is open")
		}
		switch dispute.Status {
		case DisputePending:
			return ViewDisputeAwaitingTutor, nil
		case DisputeSubmitted:
			if !tutor.Responded() {
				return "", violation(s.ID, "dispute submitted without a tutor response")
			}
			if *tutor.Attended {
				return ViewDisputeContested, nil
			}
			return ViewDisputeAgreedRefund, nil
		}
	}

	deniedDispute := dispute != nil && dispute.Status == DisputeResolved && dispute.Outcome == OutcomeDeny

	switch s.Status {
	case SlotAvailable:
		return ViewAvailable, nil

	case SlotBooked:
		if tutor.Responded() || learner.Responded() || dispute != nil {
			return "", violation(s.ID, "responses recorded on a slot that was never paid")
		}
		return ViewBooked, nil

	case SlotPaid:
		if tutor.AttendedTrue() && learner.AttendedTrue() {
			// Completion happens in the same transaction as the second
			// attendance write; seeing this persisted means a lost update.
			return "", violation(s.ID, "both parties attended but slot never completed")
		}
		if deniedDispute {
			return ViewDisputeDenied, nil
		}
		return ViewPaid, nil

	case SlotCompleted:
		if deniedDispute {
			return ViewDisputeDenied, nil
		}
		return ViewCompleted, nil

	case SlotCancelled:
		return ViewCancelled, nil

	case SlotRejected:
		switch s.RejectionCause {
		case RejectionDisputed:
			if dispute == nil || dispute.Status != DisputeResolved || dispute.Outcome != OutcomeRefund {
				return "", violation(s.ID, "rejected as disputed without a resolved refund case")
			}
			if !learner.HasEvidence() || dispute.Reason == "" {
				return "", violation(s.ID, "dispute refund without learner evidence or reason")
			}
			return ViewRefundedDisputed, nil
		case RejectionReschedule:
			if tutor.Responded() || learner.Responded() || tutor.HasEvidence() || learner.HasEvidence() || dispute != nil {
				return "", violation(s.ID, "reschedule cancellation carries an evidence trail")
			}
			return ViewCancelledReschedule, nil
		default:
			return "", violation(s.ID, "rejected slot without a rejection cause")
		}
	}

	return "", violation(s.ID, "unknown slot status %q", s.Status)
}
