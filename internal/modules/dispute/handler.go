package dispute

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
	disputes := rg.Group("/disputes")
	{
		disputes.POST("", h.FileDispute)
		disputes.GET("/:id", h.GetDispute)
		disputes.POST("/:id/contest", h.Contest)
		disputes.POST("/:id/agree-refund", h.AgreeRefund)
	}
}

func (h *Handler) FileDispute(c *gin.Context) {
	var req FileDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.File(c.Request.Context(), c.GetInt64("user_id"), req.SlotID, req.Reason, req.EvidenceID, time.Now())
	if err != nil {
		writeDisputeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"dispute": d})
}

func (h *Handler) GetDispute(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid dispute ID")
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), c.GetInt64("user_id"), domain.UserRole(c.GetString("role")), id)
	if err != nil {
		writeDisputeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"dispute": d})
}

func (h *Handler) Contest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid dispute ID")
		return
	}

	var req ContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.Contest(c.Request.Context(), c.GetInt64("user_id"), id, req.EvidenceID, time.Now()); err != nil {
		writeDisputeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": string(domain.DisputeSubmitted)})
}

func (h *Handler) AgreeRefund(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid dispute ID")
		return
	}

	if err := h.service.AgreeRefund(c.Request.Context(), c.GetInt64("user_id"), id, time.Now()); err != nil {
		writeDisputeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": string(domain.DisputeSubmitted)})
}

func writeDisputeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Dispute or slot not found")
	case errors.Is(err, ErrNotAuthorized):
		response.Error(c, http.StatusForbidden, "NOT_AUTHORIZED", "You are not a party on this slot")
	case errors.Is(err, ErrOutsideTimeWindow):
		response.Error(c, http.StatusConflict, "OUTSIDE_TIME_WINDOW", "The slot time window does not admit this action")
	case errors.Is(err, ErrAlreadyResponded):
		response.Error(c, http.StatusConflict, "ALREADY_RESPONDED", "A response is already recorded for this party")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Action not valid from the current state")
	case errors.Is(err, ErrEvidenceRequired), errors.Is(err, ErrEvidenceMissing):
		response.Error(c, http.StatusBadRequest, "EVIDENCE_REQUIRED", "A valid evidence reference is required")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid dispute payload")
	case errors.Is(err, domain.ErrInvariantViolation):
		response.Error(c, http.StatusInternalServerError, "INVARIANT_VIOLATION", "Slot state is inconsistent and pending manual repair")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process dispute action")
	}
}
