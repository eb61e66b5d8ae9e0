package booking

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
	rg.POST("/slots", h.Book)
	rg.POST("/slots/:id/cancel", h.Cancel)
	rg.GET("/slots", h.ListMine)
}

func (h *Handler) Book(c *gin.Context) {
	if c.GetString("role") != string(domain.RoleLearner) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only learners book slots")
		return
	}

	var req BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking payload")
		return
	}

	slot, err := h.service.Book(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"slot": slot})
}

func (h *Handler) Cancel(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid slot ID")
		return
	}

	slot, err := h.service.Cancel(c.Request.Context(), c.GetInt64("user_id"), slotID, time.Now())
	if err != nil {
		writeBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"slot": slot})
}

func (h *Handler) ListMine(c *gin.Context) {
	from, to := time.Now().AddDate(0, -1, 0), time.Now().AddDate(0, 1, 0)
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}

	slots, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"), domain.UserRole(c.GetString("role")), from, to)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list slots")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"slots": slots})
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Slot not found")
	case errors.Is(err, ErrTutorNotFound):
		response.Error(c, http.StatusNotFound, "TUTOR_NOT_FOUND", "Tutor not found")
	case errors.Is(err, ErrInvalidTimes):
		response.Error(c, http.StatusBadRequest, "INVALID_TIMES", "Slot times are invalid")
	case errors.Is(err, ErrOutsideAvailability):
		response.Error(c, http.StatusConflict, "OUTSIDE_AVAILABILITY", "The tutor is not available at that time")
	case errors.Is(err, ErrOverlap):
		response.Error(c, http.StatusConflict, "OVERLAP", "The tutor already has a booking at that time")
	case errors.Is(err, ErrNotCancellable):
		response.Error(c, http.StatusConflict, "NOT_CANCELLABLE", "Slot can no longer be cancelled")
	case errors.Is(err, ErrNotAuthorized):
		response.Error(c, http.StatusForbidden, "NOT_AUTHORIZED", "You are not a party on this slot")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Booking failed")
	}
}
