package reporting

import (
	"context"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

type SlotRepository interface {
	List(ctx context.Context, f repository.SlotFilter) ([]domain.Slot, error)
}

type AttendanceRepository interface {
	GetPairForSlot(ctx context.Context, slotID int64) (domain.AttendanceRecord, domain.AttendanceRecord, error)
}

type DisputeReader interface {
	GetLatestBySlot(ctx context.Context, slotID int64) (*domain.DisputeCase, error)
}
