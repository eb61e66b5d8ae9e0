package slots

import (
	"errors"
	"net/http"
	"strconv"

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
	rg.GET("/slots/:id/status", h.GetStatus)
}

func (h *Handler) GetStatus(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid slot ID")
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), c.GetInt64("user_id"), domain.UserRole(c.GetString("role")), slotID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Slot not found")
		case errors.Is(err, ErrNotAuthorized):
			response.Error(c, http.StatusForbidden, "NOT_AUTHORIZED", "You are not a party on this slot")
		case errors.Is(err, domain.ErrInvariantViolation):
			response.Error(c, http.StatusInternalServerError, "INVARIANT_VIOLATION", "Slot state is inconsistent and pending manual repair")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load slot status")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": status})
}
