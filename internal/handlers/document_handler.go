package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orange-studies/portal-service/internal/services"
	"github.com/orange-studies/portal-service/internal/utils"
)

type DocumentHandler struct {
	BaseHandler
	service services.DocumentService
}

func NewDocumentHandler(service services.DocumentService, logger utils.Logger) *DocumentHandler {
	return &DocumentHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Reupload lets a student attach a new file to one of their slots.
// POST /api/v1/documents/:id/reupload
func (h *DocumentHandler) Reupload(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		FileURL string `json:"fileUrl" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "fileUrl is required", err)
		return
	}

	doc, err := h.service.Reupload(c.Request.Context(), CurrentUser(c), id, req.FileURL)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "document uploaded", doc)
}

// ListMine returns the authenticated user's document slots.
// GET /api/v1/documents/mine
func (h *DocumentHandler) ListMine(c *gin.Context) {
	user := CurrentUser(c)
	docs, err := h.service.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", docs)
}

// RequestReupload flags a slot with reviewer feedback.
// POST /api/v1/admin/documents/:id/request-reupload
func (h *DocumentHandler) RequestReupload(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Feedback string `json:"feedback" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "feedback is required", err)
		return
	}

	doc, err := h.service.RequestReupload(c.Request.Context(), CurrentUser(c), id, req.Feedback)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "reupload requested", doc)
}

// Verify marks a slot as reviewed and accepted.
// POST /api/v1/admin/documents/:id/verify
func (h *DocumentHandler) Verify(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.Verify(c.Request.Context(), CurrentUser(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "document verified", doc)
}

// Delete removes a slot row and best-effort deletes the stored file.
// DELETE /api/v1/admin/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), CurrentUser(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "document deleted", nil)
}
