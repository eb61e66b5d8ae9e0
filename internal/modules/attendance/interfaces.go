package attendance

import (
	"context"
	"time"

	"tutorhub/internal/domain"
)

type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	CompleteIfBothAttended(ctx context.Context, slotID int64) (bool, error)
}

type AttendanceRepository interface {
	GetPairForSlot(ctx context.Context, slotID int64) (domain.AttendanceRecord, domain.AttendanceRecord, error)
	RecordResponse(ctx context.Context, slotID int64, party domain.Party, attended bool, evidenceID *string, now time.Time) error
}

type DisputeReader interface {
	GetLatestBySlot(ctx context.Context, slotID int64) (*domain.DisputeCase, error)
}

type EvidenceReader interface {
	Exists(ctx context.Context, id string, ownerID int64) (bool, error)
}

type StatusNotifier interface {
	NotifySlotStatus(ctx context.Context, slot *domain.Slot, view domain.SlotView)
}
