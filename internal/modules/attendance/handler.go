package attendance

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/slots/:id/attendance", h.RecordAttendance)
	rg.GET("/slots/:id/attendance", h.GetAttendance)
}

func (h *Handler) RecordAttendance(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid slot ID")
		return
	}

	var req RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	slot, err := h.service.Record(c.Request.Context(), c.GetInt64("user_id"), slotID, req.EvidenceID, time.Now())
	if err != nil {
		writeAttendanceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"slot": gin.H{
			"id":     slot.ID,
			"status": slot.Status,
		},
	})
}

func (h *Handler) GetAttendance(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid slot ID")
		return
	}

	tutor, learner, err := h.service.GetPair(c.Request.Context(), c.GetInt64("user_id"), domain.UserRole(c.GetString("role")), slotID)
	if err != nil {
		writeAttendanceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"tutor":   tutor,
		"learner": learner,
	})
}

func writeAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Slot not found")
	case errors.Is(err, ErrNotAuthorized):
		response.Error(c, http.StatusForbidden, "NOT_AUTHORIZED", "You are not a party on this slot")
	case errors.Is(err, ErrOutsideTimeWindow):
		response.Error(c, http.StatusConflict, "OUTSIDE_TIME_WINDOW", "The slot time window does not admit this action")
	case errors.Is(err, ErrAlreadyResponded):
		response.Error(c, http.StatusConflict, "ALREADY_RESPONDED", "Attendance already recorded for this party")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Attendance not valid from the current state")
	case errors.Is(err, ErrEvidenceRequired), errors.Is(err, ErrEvidenceMissing):
		response.Error(c, http.StatusBadRequest, "EVIDENCE_REQUIRED", "A valid evidence reference is required")
	case errors.Is(err, domain.ErrInvariantViolation):
		response.Error(c, http.StatusInternalServerError, "INVARIANT_VIOLATION", "Slot state is inconsistent and pending manual repair")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record attendance")
	}
}
