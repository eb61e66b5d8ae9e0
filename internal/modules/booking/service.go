package booking

import (
	"context"
	"errors"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

const (
	minSlotDuration = 30 * time.Minute
	maxSlotDuration = 3 * time.Hour
)

type Service struct {
	slots        SlotRepository
	availability AvailabilityReader
	users        UserReader
}

func NewService(slots SlotRepository, availability AvailabilityReader, users UserReader) *Service {
	return &Service{slots: slots, availability: availability, users: users}
}

// Book creates a booked slot for the learner inside one of the tutor's
// weekly windows. The overlap check runs twice: a read upfront for a
// clean error, and the conditional insert for the race.
func (s *Service) Book(ctx context.Context, learnerID int64, req BookSlotRequest) (*domain.Slot, error) {
	now := time.Now()
	if !req.StartTime.Before(req.EndTime) || req.StartTime.Before(now) {
		return nil, ErrInvalidTimes
	}
	dur := req.EndTime.Sub(req.StartTime)
	if dur < minSlotDuration || dur > maxSlotDuration {
		return nil, ErrInvalidTimes
	}

	tutor, err := s.users.GetByID(ctx, req.TutorID)
	if err != nil || tutor.Role != domain.RoleTutor {
		return nil, ErrTutorNotFound
	}

	rules, err := s.availability.ListByTutor(ctx, req.TutorID)
	if err != nil {
		return nil, err
	}
	if !ruleCovers(rules, req.StartTime, req.EndTime) {
		return nil, ErrOutsideAvailability
	}

	free, err := s.slots.CheckAvailability(ctx, req.TutorID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrOverlap
	}

	slot := &domain.Slot{
		BookingPlanID: req.BookingPlanID,
		TutorID:       req.TutorID,
		LearnerID:     learnerID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        domain.SlotBooked,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrOverlap
		}
		return nil, err
	}
	return slot, nil
}

// Cancel withdraws a booked, not yet paid slot before it starts. Either
// party may cancel at this stage; money is not involved yet.
func (s *Service) Cancel(ctx context.Context, callerID, slotID int64, now time.Time) (*domain.Slot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if callerID != slot.TutorID && callerID != slot.LearnerID {
		return nil, ErrNotAuthorized
	}
	if !now.Before(slot.StartTime) {
		return nil, ErrNotCancellable
	}

	err = s.slots.TransitionStatus(ctx, slotID, []domain.SlotStatus{domain.SlotBooked}, domain.SlotCancelled)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrNotCancellable
		}
		return nil, err
	}
	slot.Status = domain.SlotCancelled
	return slot, nil
}

// ListMine returns the caller's slots, as tutor or learner depending on
// their role.
func (s *Service) ListMine(ctx context.Context, callerID int64, role domain.UserRole, from, to time.Time) ([]domain.Slot, error) {
	f := repository.SlotFilter{From: from, To: to}
	if role == domain.RoleTutor {
		f.TutorID = callerID
	} else {
		f.LearnerID = callerID
	}
	return s.slots.List(ctx, f)
}

func ruleCovers(rules []domain.AvailabilityRule, start, end time.Time) bool {
	for _, r := range rules {
		if r.Covers(start, end) {
			return true
		}
	}
	return false
}
