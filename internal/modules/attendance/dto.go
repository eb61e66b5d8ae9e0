package attendance

type RecordAttendanceRequest struct {
	EvidenceID string `json:"evidence_id" binding:"required"`
}
