package arbiter

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group already guarded by AdminOnly.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/disputes", h.ListOpen)
	rg.POST("/disputes/:id/decision", h.Decide)
}

func (h *Handler) Decide(c *gin.Context) {
	disputeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid dispute ID")
		return
	}

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Outcome must be refund or deny")
		return
	}

	dcase, err := h.service.Decide(c.Request.Context(), c.GetInt64("user_id"), disputeID, domain.DisputeOutcome(req.Outcome), req.Note, time.Now())
	if err != nil {
		writeArbiterError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"dispute": dcase})
}

func (h *Handler) ListOpen(c *gin.Context) {
	onlyExpired := c.Query("only_expired") == "true"

	rows, err := h.service.ListOpen(c.Request.Context(), time.Now(), onlyExpired)
	if err != nil {
		writeArbiterError(c, err)
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		items = append(items, gin.H{
			"dispute": row.Dispute,
			"slot": gin.H{
				"id":         row.Slot.ID,
				"tutor_id":   row.Slot.TutorID,
				"learner_id": row.Slot.LearnerID,
				"start_time": row.Slot.StartTime,
				"end_time":   row.Slot.EndTime,
				"status":     row.Slot.Status,
			},
		})
	}

	response.Success(c, http.StatusOK, gin.H{"disputes": items})
}

func writeArbiterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Dispute not found")
	case errors.Is(err, ErrAlreadyResolved):
		response.Error(c, http.StatusConflict, "ALREADY_RESOLVED", "Dispute is already resolved")
	case errors.Is(err, ErrWindowStillOpen):
		response.Error(c, http.StatusConflict, "WINDOW_STILL_OPEN", "The tutor may still respond to this dispute")
	case errors.Is(err, ErrInvalidOutcome):
		response.Error(c, http.StatusBadRequest, "INVALID_OUTCOME", "Outcome must be refund or deny")
	case errors.Is(err, domain.ErrInvariantViolation):
		response.Error(c, http.StatusInternalServerError, "INVARIANT_VIOLATION", "Slot state is inconsistent and pending manual repair")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process decision")
	}
}
