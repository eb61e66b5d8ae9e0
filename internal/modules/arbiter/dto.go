package arbiter

type DecideRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=refund deny"`
	Note    string `json:"note"`
}
