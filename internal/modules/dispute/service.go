package dispute

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

type Service struct {
	slots      SlotRepository
	attendance AttendanceRepository
	disputes   DisputeRepository
	evidence   EvidenceReader
	notifier   StatusNotifier
}

func NewService(
	slots SlotRepository,
	attendance AttendanceRepository,
	disputes DisputeRepository,
	evidence EvidenceReader,
	notifier StatusNotifier,
) *Service {
	return &Service{
		slots:      slots,
		attendance: attendance,
		disputes:   disputes,
		evidence:   evidence,
		notifier:   notifier,
	}
}

// slotState is the full flag tuple a guard decision needs.
type slotState struct {
	slot    *domain.Slot
	tutor   domain.AttendanceRecord
	learner domain.AttendanceRecord
	dispute *domain.DisputeCase
}

// loadState fetches the tuple and runs the projection over it. A slot
// whose flags violate an invariant is frozen: the error is logged at the
// highest severity and returned, and no mutation goes through.
func (s *Service) loadState(ctx context.Context, slotID int64) (*slotState, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tutor, learner, err := s.attendance.GetPairForSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// No attendance pair means the slot was never paid.
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	dcase, err := s.disputes.GetLatestBySlot(ctx, slotID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, perr := domain.Project(slot, tutor, learner, dcase); perr != nil {
		log.Printf("level=fatal msg=slot frozen on invariant violation slot_id=%d err=%q", slotID, perr)
		return nil, perr
	}

	return &slotState{slot: slot, tutor: tutor, learner: learner, dispute: dcase}, nil
}

// File opens a dispute: the learner claims the tutor did not attend a
// paid slot. Filing is the learner's terminal response: it records
// attended=false with the supplied evidence in the same transaction.
func (s *Service) File(ctx context.Context, callerID, slotID int64, reason, evidenceID string, now time.Time) (*domain.DisputeCase, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrValidation
	}
	if evidenceID == "" {
		return nil, ErrEvidenceRequired
	}

	st, err := s.loadState(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if st.slot.LearnerID != callerID {
		return nil, ErrNotAuthorized
	}
	if st.slot.Status != domain.SlotPaid {
		return nil, ErrInvalidTransition
	}
	if !domain.IsActionable(st.slot, now) {
		return nil, ErrOutsideTimeWindow
	}
	if st.learner.Responded() {
		return nil, ErrAlreadyResponded
	}
	if st.dispute != nil && st.dispute.Open() {
		return nil, ErrInvalidTransition
	}

	ok, err := s.evidence.Exists(ctx, evidenceID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEvidenceMissing
	}

	d := &domain.DisputeCase{
		SlotID:   slotID,
		RaisedBy: callerID,
		Reason:   reason,
	}
	if err := s.disputes.File(ctx, d, evidenceID, now); err != nil {
		// Lost a race: either a concurrent case got in first or the
		// learner's record was written meanwhile. Both are duplicates
		// of an already-applied response.
		if errors.Is(err, repository.ErrDuplicate) || errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrAlreadyResponded
		}
		return nil, err
	}

	s.notify(ctx, slotID)
	return d, nil
}

// Contest is the tutor's "I was there" answer: PENDING→SUBMITTED with
// evidence attached. The CAS makes a concurrent agree/contest pair decide
// exactly one winner.
func (s *Service) Contest(ctx context.Context, callerID, disputeID int64, evidenceID string, now time.Time) error {
	dcase, st, err := s.loadCase(ctx, disputeID)
	if err != nil {
		return err
	}
	if st.slot.TutorID != callerID {
		return ErrNotAuthorized
	}
	if dcase.Status == domain.DisputeResolved {
		return ErrInvalidTransition
	}
	if dcase.Status == domain.DisputeSubmitted {
		return ErrAlreadyResponded
	}
	if !domain.IsActionable(st.slot, now) {
		return ErrOutsideTimeWindow
	}

	// agreeRefund is terminal: an explicit "did not attend" is never
	// contradicted by a later contest.
	if st.tutor.Responded() && !*st.tutor.Attended {
		return ErrAlreadyResponded
	}

	// When the tutor recorded attendance before the dispute was filed,
	// the claim and its evidence already stand; contesting only flips
	// the case. Evidence references are never reassigned.
	writeAttendance := !st.tutor.Responded()
	var evidence *string
	if writeAttendance {
		if evidenceID == "" {
			return ErrEvidenceRequired
		}
		ok, err := s.evidence.Exists(ctx, evidenceID, callerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrEvidenceMissing
		}
		evidence = &evidenceID
	}

	err = s.disputes.SubmitTutorResponse(ctx, disputeID, st.slot.ID, true, evidence, writeAttendance, now)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return ErrAlreadyResponded
		}
		return err
	}

	s.notify(ctx, st.slot.ID)
	return nil
}

// AgreeRefund is the tutor's concession: it validates the learner's claim
// without new learner evidence, records attended=false explicitly and
// submits the case. Terminal for the tutor.
func (s *Service) AgreeRefund(ctx context.Context, callerID, disputeID int64, now time.Time) error {
	dcase, st, err := s.loadCase(ctx, disputeID)
	if err != nil {
		return err
	}
	if st.slot.TutorID != callerID {
		return ErrNotAuthorized
	}
	if dcase.Status == domain.DisputeResolved {
		return ErrInvalidTransition
	}
	if dcase.Status == domain.DisputeSubmitted {
		return ErrAlreadyResponded
	}
	if !domain.IsActionable(st.slot, now) {
		return ErrOutsideTimeWindow
	}

	// A prior tutor response of any kind blocks the concession: either
	// evidence is already on file or the record is already terminal.
	if st.tutor.Responded() || st.tutor.HasEvidence() {
		return ErrAlreadyResponded
	}

	err = s.disputes.SubmitTutorResponse(ctx, disputeID, st.slot.ID, false, nil, true, now)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return ErrAlreadyResponded
		}
		return err
	}

	s.notify(ctx, st.slot.ID)
	return nil
}

func (s *Service) GetByID(ctx context.Context, callerID int64, callerRole domain.UserRole, disputeID int64) (*domain.DisputeCase, error) {
	dcase, st, err := s.loadCase(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if callerRole != domain.RoleAdmin && st.slot.TutorID != callerID && st.slot.LearnerID != callerID {
		return nil, ErrNotAuthorized
	}
	return dcase, nil
}

func (s *Service) loadCase(ctx context.Context, disputeID int64) (*domain.DisputeCase, *slotState, error) {
	dcase, err := s.disputes.GetByID(ctx, disputeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	st, err := s.loadState(ctx, dcase.SlotID)
	if err != nil {
		return nil, nil, err
	}
	// loadState re-reads the latest case; keep the requested one for
	// status checks but guard against a mismatch on open cases.
	return dcase, st, nil
}

func (s *Service) notify(ctx context.Context, slotID int64) {
	if s.notifier == nil {
		return
	}
	st, err := s.loadState(ctx, slotID)
	if err != nil {
		return
	}
	view, err := domain.Project(st.slot, st.tutor, st.learner, st.dispute)
	if err != nil {
		return
	}
	s.notifier.NotifySlotStatus(ctx, st.slot, view)
}
