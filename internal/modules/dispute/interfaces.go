package dispute

import (
	"context"
	"time"

	"tutorhub/internal/domain"
)

// SlotRepository provides slot reads for guard checks.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// AttendanceRepository provides both parties' records for a slot.
type AttendanceRepository interface {
	GetPairForSlot(ctx context.Context, slotID int64) (domain.AttendanceRecord, domain.AttendanceRecord, error)
}

// DisputeRepository owns the compare-and-set writes on dispute cases.
type DisputeRepository interface {
	File(ctx context.Context, d *domain.DisputeCase, evidenceID string, now time.Time) error
	SubmitTutorResponse(ctx context.Context, disputeID, slotID int64, attended bool, evidenceID *string, writeAttendance bool, now time.Time) error
	GetByID(ctx context.Context, id int64) (*domain.DisputeCase, error)
	GetLatestBySlot(ctx context.Context, slotID int64) (*domain.DisputeCase, error)
}

// EvidenceReader resolves an evidence reference before it is attached.
// Upload failures never mutate dispute state; the caller retries the
// upload and files again with the returned reference.
type EvidenceReader interface {
	Exists(ctx context.Context, id string, ownerID int64) (bool, error)
}

// StatusNotifier pushes the canonical projected status to both parties.
type StatusNotifier interface {
	NotifySlotStatus(ctx context.Context, slot *domain.Slot, view domain.SlotView)
}
