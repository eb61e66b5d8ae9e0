package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }
func respondedAt() *time.Time { t := time.Now(); return &t }

func slotIn(status SlotStatus) *Slot {
	return &Slot{ID: 1, TutorID: 10, LearnerID: 20, Status: status}
}

func responded(attended bool, evidence string) AttendanceRecord {
	r := AttendanceRecord{SlotID: 1, Attended: boolPtr(attended), RespondedAt: respondedAt()}
	if evidence != "" {
		r.EvidenceID = strPtr(evidence)
	}
	return r
}

func openCase(status DisputeStatus) *DisputeCase {
	return &DisputeCase{ID: 5, SlotID: 1, RaisedBy: 20, Reason: "no-show", Status: status}
}

func resolvedCase(outcome DisputeOutcome) *DisputeCase {
	d := openCase(DisputeResolved)
	d.Outcome = outcome
	return d
}

func TestProjectPlainLifecycle(t *testing.T) {
	none := AttendanceRecord{SlotID: 1}

	cases := []struct {
		status SlotStatus
		want   SlotView
	}{
		{SlotAvailable, ViewAvailable},
		{SlotBooked, ViewBooked},
		{SlotPaid, ViewPaid},
		{SlotCompleted, ViewCompleted},
		{SlotCancelled, ViewCancelled},
	}
	for _, tc := range cases {
		view, err := Project(slotIn(tc.status), none, none, nil)
		require.NoError(t, err, string(tc.status))
		assert.Equal(t, tc.want, view)
	}
}

func TestProjectPartialAttendanceStaysPaid(t *testing.T) {
	none := AttendanceRecord{SlotID: 1}

	view, err := Project(slotIn(SlotPaid), responded(true, "ev-t"), none, nil)
	require.NoError(t, err)
	assert.Equal(t, ViewPaid, view)

	view, err = Project(slotIn(SlotPaid), none, responded(true, "ev-l"), nil)
	require.NoError(t, err)
	assert.Equal(t, ViewPaid, view)
}

func TestProjectDisputeStates(t *testing.T) {
	none := AttendanceRecord{SlotID: 1}
	learner := responded(false, "ev-l")

	view, err := Project(slotIn(SlotPaid), none, learner, openCase(DisputePending))
	require.NoError(t, err)
	assert.Equal(t, ViewDisputeAwaitingTutor, view)

	view, err = Project(slotIn(SlotPaid), responded(true, "ev-t"), learner, openCase(DisputeSubmitted))
	require.NoError(t, err)
	assert.Equal(t, ViewDisputeContested, view)

	view, err = Project(slotIn(SlotPaid), responded(false, ""), learner, openCase(DisputeSubmitted))
	require.NoError(t, err)
	assert.Equal(t, ViewDisputeAgreedRefund, view)
}

func TestProjectResolvedOutcomes(t *testing.T) {
	learner := responded(false, "ev-l")

	s := slotIn(SlotRejected)
	s.RejectionCause = RejectionDisputed
	view, err := Project(s, responded(false, ""), learner, resolvedCase(OutcomeRefund))
	require.NoError(t, err)
	assert.Equal(t, ViewRefundedDisputed, view)

	view, err = Project(slotIn(SlotCompleted), responded(true, "ev-t"), learner, resolvedCase(OutcomeDeny))
	require.NoError(t, err)
	assert.Equal(t, ViewDisputeDenied, view)

	view, err = Project(slotIn(SlotPaid), responded(false, ""), learner, resolvedCase(OutcomeDeny))
	require.NoError(t, err)
	assert.Equal(t, ViewDisputeDenied, view)
}

func TestProjectRescheduleCancellation(t *testing.T) {
	none := AttendanceRecord{SlotID: 1}

	s := slotIn(SlotRejected)
	s.RejectionCause = RejectionReschedule
	view, err := Project(s, none, none, nil)
	require.NoError(t, err)
	assert.Equal(t, ViewCancelledReschedule, view)
}

// The two rejection causes must never blur into each other.
func TestProjectRejectionCausesStayDistinguishable(t *testing.T) {
	none := AttendanceRecord{SlotID: 1}
	learner := responded(false, "ev-l")

	// Reschedule tag with an evidence trail is corrupt.
	s := slotIn(SlotRejected)
	s.RejectionCause = RejectionReschedule
	_, err := Project(s, none, learner, resolvedCase(OutcomeRefund))
	assert.ErrorIs(t, err, ErrInvariantViolation)

	// Disputed tag without a resolved refund case is corrupt.
	s = slotIn(SlotRejected)
	s.RejectionCause = RejectionDisputed
	_, err = Project(s, none, none, nil)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	// Rejected with no cause at all.
	_, err = Project(slotIn(SlotRejected), none, none, nil)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestProjectInvariantViolations(t *testing.T) {
	none := AttendanceRecord{SlotID: 1}
	learner := responded(false, "ev-l")

	// Both attended while a dispute is open.
	_, err := Project(slotIn(SlotPaid), responded(true, "ev-t"), responded(true, "ev-l"), openCase(DisputePending))
	assert.ErrorIs(t, err, ErrInvariantViolation)

	// Open dispute but learner never recorded a claim.
	_, err = Project(slotIn(SlotPaid), none, none, openCase(DisputePending))
	assert.ErrorIs(t, err, ErrInvariantViolation)

	// Submitted case without any tutor response.
	_, err = Project(slotIn(SlotPaid), none, learner, openCase(DisputeSubmitted))
	assert.ErrorIs(t, err, ErrInvariantViolation)

	// Refund agreement with tutor evidence attached.
	_, err = Project(slotIn(SlotPaid), responded(false, "ev-t"), learner, openCase(DisputeSubmitted))
	assert.ErrorIs(t, err, ErrInvariantViolation)

	// Learner marked absent with no case on record.
	_, err = Project(slotIn(SlotPaid), none, learner, nil)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	// Open dispute on a completed slot.
	_, err = Project(slotIn(SlotCompleted), none, learner, openCase(DisputePending))
	assert.ErrorIs(t, err, ErrInvariantViolation)

	// Responses on a slot that was never paid.
	_, err = Project(slotIn(SlotBooked), responded(true, "ev-t"), none, nil)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	// Both attended on a paid slot that never completed (lost update).
	_, err = Project(slotIn(SlotPaid), responded(true, "ev-t"), responded(true, "ev-l"), nil)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}
