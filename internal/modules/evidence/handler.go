package evidence

import (
	"errors"
	"net/http"

	"tutorhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers evidence routes under the protected group.
// Any authenticated user can upload; there is no delete route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	ev := rg.Group("/evidence")
	{
		ev.POST("", h.Upload)
		ev.GET("", h.ListMy)
		ev.GET("/:id", h.GetByID)
	}
}

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No file provided")
		return
	}

	asset, err := h.service.Store(c.Request.Context(), c.GetInt64("user_id"), fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile):
			response.Error(c, http.StatusBadRequest, "EMPTY_FILE", err.Error())
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
		case errors.Is(err, ErrInvalidMimeType):
			response.Error(c, http.StatusBadRequest, "INVALID_MIME_TYPE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Upload failed")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"evidence": assetJSON(asset)})
}

func (h *Handler) GetByID(c *gin.Context) {
	asset, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Evidence asset not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"evidence": assetJSON(asset)})
}

func (h *Handler) ListMy(c *gin.Context) {
	assets, err := h.service.ListByOwner(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list evidence")
		return
	}

	items := make([]gin.H, 0, len(assets))
	for _, a := range assets {
		items = append(items, assetJSON(a))
	}
	response.Success(c, http.StatusOK, gin.H{"evidence": items})
}

func assetJSON(a *Asset) gin.H {
	return gin.H{
		"id":         a.ID,
		"url":        a.FileURL,
		"name":       a.OriginalName,
		"mime_type":  a.MimeType,
		"size":       a.Size,
		"created_at": a.CreatedAt,
	}
}
