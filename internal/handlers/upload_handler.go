package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/orange-studies/portal-service/internal/config"
	"github.com/orange-studies/portal-service/internal/storage"
	"github.com/orange-studies/portal-service/internal/utils"
)

// UploadHandler accepts multipart file uploads and stores them in blob
// storage. Unlike every other endpoint it fails with plain HTTP error
// statuses, as the frontend consumes this route directly from file pickers.
type UploadHandler struct {
	BaseHandler
	uploader storage.Uploader
	cfg      *config.Config
}

func NewUploadHandler(uploader storage.Uploader, cfg *config.Config, logger utils.Logger) *UploadHandler {
	return &UploadHandler{BaseHandler: NewBaseHandler(logger), uploader: uploader, cfg: cfg}
}

// Upload stores the "file" form field and returns its public URL.
// POST /api/v1/uploads
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, "file is required")
		return
	}
	if fileHeader.Size > h.cfg.MaxUploadBytes {
		c.String(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds %d bytes", h.cfg.MaxUploadBytes))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !h.allowedType(contentType) {
		c.String(http.StatusUnsupportedMediaType, "unsupported content type: "+contentType)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.String(http.StatusBadRequest, "could not read file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes+1))
	if err != nil {
		c.String(http.StatusBadRequest, "could not read file")
		return
	}
	if int64(len(data)) > h.cfg.MaxUploadBytes {
		c.String(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds %d bytes", h.cfg.MaxUploadBytes))
		return
	}

	ext := filepath.Ext(fileHeader.Filename)
	filename := uuid.NewString() + ext

	url, err := h.uploader.UploadBytes(c.Request.Context(), h.cfg.UploadFolder, filename, data)
	if err != nil {
		h.logger.LogError(err, "upload failed", "filename", fileHeader.Filename)
		c.String(http.StatusBadGateway, "upload failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func (h *UploadHandler) allowedType(contentType string) bool {
	for _, allowed := range h.cfg.UploadMimeTypes {
		if strings.EqualFold(strings.TrimSpace(allowed), contentType) {
			return true
		}
	}
	return false
}
