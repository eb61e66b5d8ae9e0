package schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/pkg/response"
	"tutorhub/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/availability", h.SetAvailability)
	rg.GET("/tutors/:id/availability", h.GetAvailability)
}

func (h *Handler) SetAvailability(c *gin.Context) {
	if c.GetString("role") != string(domain.RoleTutor) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only tutors manage availability")
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid availability windows")
		return
	}

	rules := make([]domain.AvailabilityRule, 0, len(req.Windows))
	for _, w := range req.Windows {
		rule := domain.AvailabilityRule{
			DayOfWeek: w.DayOfWeek,
			OpenTime:  w.OpenTime,
			CloseTime: w.CloseTime,
		}
		if verrs := validator.Validate(&rule); verrs != nil {
			response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid availability window", verrs)
			return
		}
		rules = append(rules, rule)
	}

	invalidated, err := h.service.SetAvailability(c.Request.Context(), c.GetInt64("user_id"), rules, time.Now())
	if err != nil {
		if errors.Is(err, ErrInvalidWindow) {
			response.Error(c, http.StatusBadRequest, "INVALID_WINDOW", "Open time must precede close time within one weekday")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update availability")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"windows":           req.Windows,
		"invalidated_slots": invalidated,
	})
}

func (h *Handler) GetAvailability(c *gin.Context) {
	tutorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid tutor ID")
		return
	}

	rules, err := h.service.GetAvailability(c.Request.Context(), tutorID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load availability")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"windows": rules})
}
