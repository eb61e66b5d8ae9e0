package slots

import (
	"context"
	"errors"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

var ErrNotFound = errors.New("slot not found")
var ErrNotAuthorized = errors.New("caller is not a party on this slot")

type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

type AttendanceRepository interface {
	GetPairForSlot(ctx context.Context, slotID int64) (domain.AttendanceRecord, domain.AttendanceRecord, error)
}

type DisputeReader interface {
	GetLatestBySlot(ctx context.Context, slotID int64) (*domain.DisputeCase, error)
}

// Service is the read surface for slot state. Clients short-polling for
// progress get the projected view, never the raw status column.
type Service struct {
	slots      SlotRepository
	attendance AttendanceRepository
	disputes   DisputeReader
}

func NewService(slots SlotRepository, attendance AttendanceRepository, disputes DisputeReader) *Service {
	return &Service{slots: slots, attendance: attendance, disputes: disputes}
}

type Status struct {
	Slot       *domain.Slot            `json:"slot"`
	View       domain.SlotView         `json:"view"`
	Tutor      domain.AttendanceRecord `json:"tutor"`
	Learner    domain.AttendanceRecord `json:"learner"`
	Dispute    *domain.DisputeCase     `json:"dispute,omitempty"`
	MeetingURL string                  `json:"meeting_url,omitempty"`
}

// GetStatus projects the slot for one of its parties or an admin. The
// meeting URL is only handed out while the session is payable-for and
// live, not on terminal states.
func (s *Service) GetStatus(ctx context.Context, callerID int64, callerRole domain.UserRole, slotID int64) (*Status, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if callerRole != domain.RoleAdmin && callerID != slot.TutorID && callerID != slot.LearnerID {
		return nil, ErrNotAuthorized
	}

	tutor, learner, err := s.attendance.GetPairForSlot(ctx, slotID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	dcase, err := s.disputes.GetLatestBySlot(ctx, slotID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	view, err := domain.Project(slot, tutor, learner, dcase)
	if err != nil {
		return nil, err
	}

	st := &Status{Slot: slot, View: view, Tutor: tutor, Learner: learner, Dispute: dcase}
	if view == domain.ViewPaid {
		st.MeetingURL = slot.MeetingURL
	}
	return st, nil
}
