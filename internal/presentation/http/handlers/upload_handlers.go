package handlers

import (
	"net/http"
	"time"

	"github.com/foliostack/foliostack-go/internal/infrastructure/media"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// UploadRequest carries a base64 data-URL image for a project.
type UploadRequest struct {
	Data string `json:"data" binding:"required"`
}

// UploadHandlers processes project image uploads.
type UploadHandlers struct {
	processor *media.ImageProcessor
	logger    *logging.ChanneledLogger
}

// NewUploadHandlers creates upload handlers with injected dependencies.
func NewUploadHandlers(processor *media.ImageProcessor, logger *logging.ChanneledLogger) *UploadHandlers {
	return &UploadHandlers{
		processor: processor,
		logger:    logger,
	}
}

// UploadProjectImage decodes, resizes, and stores a project image, returning
// its public URLs.
func (h *UploadHandlers) UploadProjectImage(c *gin.Context) {
	start := time.Now()

	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.processor.ProcessBase64Image(req.Data)
	if err != nil {
		h.logger.Media().Error("Image upload failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Media().Info("Image upload completed", "url", result.URL, "duration", time.Since(start))
	c.JSON(http.StatusOK, result)
}
