package schedule

import (
	"context"
	"time"

	"tutorhub/internal/domain"
)

type AvailabilityRepository interface {
	ListByTutor(ctx context.Context, tutorID int64) ([]domain.AvailabilityRule, error)
	ReplaceForTutor(ctx context.Context, tutorID int64, rules []domain.AvailabilityRule) error
}

type SlotRepository interface {
	ListFutureLive(ctx context.Context, tutorID int64, now time.Time) ([]domain.Slot, error)
	Reject(ctx context.Context, slotID int64, from []domain.SlotStatus, cause domain.RejectionCause) error
}

type PaymentLedger interface {
	Append(ctx context.Context, e *domain.LedgerEntry) error
	ListBySlot(ctx context.Context, slotID int64) ([]domain.LedgerEntry, error)
}

type StatusNotifier interface {
	NotifySlotStatus(ctx context.Context, slot *domain.Slot, view domain.SlotView)
}
