package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/services"
	"github.com/orange-studies/portal-service/internal/utils"
)

type LeadHandler struct {
	BaseHandler
	service services.LeadService
}

func NewLeadHandler(service services.LeadService, logger utils.Logger) *LeadHandler {
	return &LeadHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Create records a public contact-form enquiry.
// POST /api/v1/leads
func (h *LeadHandler) Create(c *gin.Context) {
	var req services.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	lead, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "thanks, we will be in touch", lead)
}

// List returns leads for the admin panel.
// GET /api/v1/admin/leads
func (h *LeadHandler) List(c *gin.Context) {
	filters := repositories.LeadFilters{Search: c.Query("search")}
	if handled := c.Query("handled"); handled != "" {
		v := handled == "true"
		filters.Handled = &v
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	leads, total, err := h.service.List(c.Request.Context(), CurrentUser(c), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", ListResponse{Items: leads, Total: total})
}

// MarkHandled toggles the handled flag on a lead.
// PUT /api/v1/admin/leads/:id/handled
func (h *LeadHandler) MarkHandled(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Handled *bool `json:"handled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "handled is required", err)
		return
	}

	lead, err := h.service.MarkHandled(c.Request.Context(), CurrentUser(c), id, *req.Handled)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "lead updated", lead)
}
