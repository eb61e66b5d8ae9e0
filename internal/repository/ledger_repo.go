package repository

import (
	"context"
	"time"

	"tutorhub/internal/domain"

	"gorm.io/gorm"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

type ledgerModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	SlotID    int64     `gorm:"column:slot_id;index"`
	PaymentID string    `gorm:"column:payment_id;uniqueIndex:idx_one_entry_per_payment_type"`
	Type      string    `gorm:"column:type;uniqueIndex:idx_one_entry_per_payment_type"`
	Amount    float64   `gorm:"column:amount"`
	Cause     *string   `gorm:"column:cause"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (ledgerModel) TableName() string { return "ledger_entries" }

func toDomainLedger(m ledgerModel) domain.LedgerEntry {
	var cause string
	if m.Cause != nil {
		cause = *m.Cause
	}
	return domain.LedgerEntry{
		ID:        m.ID,
		SlotID:    m.SlotID,
		PaymentID: m.PaymentID,
		Type:      domain.LedgerEntryType(m.Type),
		Amount:    m.Amount,
		Cause:     cause,
		CreatedAt: m.CreatedAt,
	}
}

// Append records a money event. The (payment_id, type) unique index makes
// a retried refund notification idempotent: the duplicate insert comes
// back as ErrDuplicate and the caller treats it as already applied.
func (r *LedgerRepository) Append(ctx context.Context, e *domain.LedgerEntry) error {
	m := ledgerModel{
		SlotID:    e.SlotID,
		PaymentID: e.PaymentID,
		Type:      string(e.Type),
		Amount:    e.Amount,
		CreatedAt: time.Now(),
	}
	if e.Cause != "" {
		v := e.Cause
		m.Cause = &v
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	*e = toDomainLedger(m)
	return nil
}

func (r *LedgerRepository) ListBySlot(ctx context.Context, slotID int64) ([]domain.LedgerEntry, error) {
	var models []ledgerModel
	err := r.db.WithContext(ctx).
		Where("slot_id = ?", slotID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.LedgerEntry, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainLedger(m))
	}
	return out, nil
}
