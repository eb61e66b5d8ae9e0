package attendance

import (
	"context"
	"errors"
	"log"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

type Service struct {
	slots      SlotRepository
	attendance AttendanceRepository
	disputes   DisputeReader
	evidence   EvidenceReader
	notifier   StatusNotifier
}

func NewService(
	slots SlotRepository,
	attendance AttendanceRepository,
	disputes DisputeReader,
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

// Record writes a party's "I attended" claim with its evidence. The
// record is append-only: a second call for the same party is rejected
// with ErrAlreadyResponded and leaves the first answer untouched. When
// both parties have attended and no dispute is open, the slot completes
// in the same conditional update.
func (s *Service) Record(ctx context.Context, callerID, slotID int64, evidenceID string, now time.Time) (*domain.Slot, error) {
	if evidenceID == "" {
		return nil, ErrEvidenceRequired
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var party domain.Party
	switch callerID {
	case slot.TutorID:
		party = domain.PartyTutor
	case slot.LearnerID:
		party = domain.PartyLearner
	default:
		return nil, ErrNotAuthorized
	}

	tutor, learner, err := s.attendance.GetPairForSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	rec := tutor
	if party == domain.PartyLearner {
		rec = learner
	}
	// A retry after the slot moved on is still a duplicate answer, not
	// a bad transition. The duplicate check runs before the status and
	// window gates so the caller always learns the real reason.
	if rec.Responded() {
		return nil, ErrAlreadyResponded
	}

	if slot.Status != domain.SlotPaid {
		return nil, ErrInvalidTransition
	}
	if !domain.IsActionable(slot, now) {
		return nil, ErrOutsideTimeWindow
	}

	dcase, err := s.disputes.GetLatestBySlot(ctx, slotID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, perr := domain.Project(slot, tutor, learner, dcase); perr != nil {
		log.Printf("level=fatal msg=slot frozen on invariant violation slot_id=%d err=%q", slotID, perr)
		return nil, perr
	}

	// Once a dispute is open, party responses go through the dispute
	// coordinator, not the attendance surface.
	if dcase != nil && dcase.Open() {
		return nil, ErrInvalidTransition
	}

	ok, err := s.evidence.Exists(ctx, evidenceID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEvidenceMissing
	}

	if err := s.attendance.RecordResponse(ctx, slotID, party, true, &evidenceID, now); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrAlreadyResponded
		}
		return nil, err
	}

	completed, err := s.slots.CompleteIfBothAttended(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if completed {
		slot.Status = domain.SlotCompleted
	}

	if s.notifier != nil {
		view := domain.ViewPaid
		if completed {
			view = domain.ViewCompleted
		}
		s.notifier.NotifySlotStatus(ctx, slot, view)
	}

	return slot, nil
}

// GetPair returns both records for a slot the caller is a party on.
func (s *Service) GetPair(ctx context.Context, callerID int64, callerRole domain.UserRole, slotID int64) (domain.AttendanceRecord, domain.AttendanceRecord, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.AttendanceRecord{}, domain.AttendanceRecord{}, ErrNotFound
		}
		return domain.AttendanceRecord{}, domain.AttendanceRecord{}, err
	}
	if callerRole != domain.RoleAdmin && slot.TutorID != callerID && slot.LearnerID != callerID {
		return domain.AttendanceRecord{}, domain.AttendanceRecord{}, ErrNotAuthorized
	}
	tutor, learner, err := s.attendance.GetPairForSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.AttendanceRecord{}, domain.AttendanceRecord{}, ErrNotFound
		}
		return domain.AttendanceRecord{}, domain.AttendanceRecord{}, err
	}
	return tutor, learner, nil
}
