package payments

import (
	"context"

	"tutorhub/internal/domain"
)

type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	MarkPaid(ctx context.Context, slotID int64, paymentID, meetingURL string) error
}

type AttendanceRepository interface {
	CreateEmptyPair(ctx context.Context, slotID int64) error
}

type PaymentLedger interface {
	Append(ctx context.Context, e *domain.LedgerEntry) error
	ListBySlot(ctx context.Context, slotID int64) ([]domain.LedgerEntry, error)
}

type StatusNotifier interface {
	NotifySlotStatus(ctx context.Context, slot *domain.Slot, view domain.SlotView)
}
