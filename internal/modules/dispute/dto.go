package dispute

type FileDisputeRequest struct {
	SlotID     int64  `json:"slot_id" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
	EvidenceID string `json:"evidence_id" binding:"required"`
}

type ContestRequest struct {
	EvidenceID string `json:"evidence_id"`
}
