package payments

type ConfirmRequest struct {
	SlotID    int64   `json:"slot_id" binding:"required"`
	PaymentID string  `json:"payment_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Signature string  `json:"signature" binding:"required"`
}
