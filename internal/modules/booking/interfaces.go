package booking

import (
	"context"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

type SlotRepository interface {
	Create(ctx context.Context, s *domain.Slot) error
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	CheckAvailability(ctx context.Context, tutorID int64, start, end time.Time) (bool, error)
	TransitionStatus(ctx context.Context, slotID int64, from []domain.SlotStatus, to domain.SlotStatus) error
	List(ctx context.Context, f repository.SlotFilter) ([]domain.Slot, error)
}

type AvailabilityReader interface {
	ListByTutor(ctx context.Context, tutorID int64) ([]domain.AvailabilityRule, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
