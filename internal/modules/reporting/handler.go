package reporting

import (
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
	rg.GET("/reports/tutors/:id/slots", h.TutorSummary)
}

func (h *Handler) TutorSummary(c *gin.Context) {
	tutorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid tutor ID")
		return
	}

	// Tutors read their own numbers, admins anyone's.
	if c.GetString("role") != string(domain.RoleAdmin) && c.GetInt64("user_id") != tutorID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your report")
		return
	}

	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", "from/to must be RFC 3339 timestamps")
		return
	}

	summary, err := h.service.Summarize(c.Request.Context(), tutorID, from, to)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build report")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now
	var err error
	if fromStr != "" {
		if from, err = time.Parse(time.RFC3339, fromStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if toStr != "" {
		if to, err = time.Parse(time.RFC3339, toStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}
