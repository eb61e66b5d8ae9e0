package domain

import "time"

type LedgerEntryType string

const (
	LedgerCharge LedgerEntryType = "charge"
	LedgerRefund LedgerEntryType = "refund"
)

// LedgerEntry records a money event against a slot. Actual money movement
// happens in the payment provider; this table is the audit trail the
// provider integration reads from.
type LedgerEntry struct {
	ID        int64           `json:"id"`
	SlotID    int64           `json:"slot_id"`
	PaymentID string          `json:"payment_id"`
	Type      LedgerEntryType `json:"type"`
	Amount    float64         `json:"amount"`
	Cause     string          `json:"cause,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
