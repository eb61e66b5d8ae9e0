package payments

import (
	"errors"
	"net/http"
	"strconv"

	"tutorhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterCallbackRoutes expects a group guarded by the gateway token
// middleware; the signature inside the payload is checked on top.
func (h *Handler) RegisterCallbackRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/confirm", h.Confirm)
}

// RegisterAdminRoutes expects a group guarded by AdminOnly.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/slots/:id/ledger", h.ListLedger)
}

func (h *Handler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid confirmation payload")
		return
	}

	slot, err := h.service.Confirm(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSignature):
			response.Error(c, http.StatusForbidden, "INVALID_SIGNATURE", "Signature verification failed")
		case errors.Is(err, ErrSlotNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Slot not found")
		case errors.Is(err, ErrNotPayable):
			response.Error(c, http.StatusConflict, "NOT_PAYABLE", "Slot is not awaiting payment")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to apply payment")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"slot": slot})
}

func (h *Handler) ListLedger(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid slot ID")
		return
	}

	entries, err := h.service.ListLedger(c.Request.Context(), slotID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load ledger")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}
