package arbiter

import (
	"context"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

type DisputeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.DisputeCase, error)
	Resolve(ctx context.Context, disputeID int64, outcome domain.DisputeOutcome, note string, adminID int64, allowPending bool, now time.Time) error
	ListOpen(ctx context.Context, expiredBefore time.Time, onlyExpired bool) ([]repository.OpenCaseRow, error)
}

type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	TransitionStatus(ctx context.Context, slotID int64, from []domain.SlotStatus, to domain.SlotStatus) error
	Reject(ctx context.Context, slotID int64, from []domain.SlotStatus, cause domain.RejectionCause) error
}

type AttendanceReader interface {
	GetPairForSlot(ctx context.Context, slotID int64) (domain.AttendanceRecord, domain.AttendanceRecord, error)
}

type PaymentLedger interface {
	Append(ctx context.Context, e *domain.LedgerEntry) error
	ListBySlot(ctx context.Context, slotID int64) ([]domain.LedgerEntry, error)
}

type StatusNotifier interface {
	NotifySlotStatus(ctx context.Context, slot *domain.Slot, view domain.SlotView)
}
