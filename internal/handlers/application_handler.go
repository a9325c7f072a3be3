package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/services"
	"github.com/orange-studies/portal-service/internal/utils"
)

type ApplicationHandler struct {
	BaseHandler
	service services.ApplicationService
}

func NewApplicationHandler(service services.ApplicationService, logger utils.Logger) *ApplicationHandler {
	return &ApplicationHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Submit creates an application with its timeline and document placeholders.
// POST /api/v1/applications
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req services.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	application, err := h.service.Submit(c.Request.Context(), CurrentUser(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "application submitted", gin.H{
		"applicationId": application.ID,
		"refCode":       application.RefCode,
		"application":   application,
	})
}

// ListMine returns the authenticated student's applications.
// GET /api/v1/applications/mine
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	user := CurrentUser(c)
	applications, err := h.service.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", applications)
}

// Get returns one application with timeline and documents.
// GET /api/v1/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}

	application, err := h.service.GetByID(c.Request.Context(), CurrentUser(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", application)
}

// List returns applications for the admin panel.
// GET /api/v1/admin/applications
func (h *ApplicationHandler) List(c *gin.Context) {
	filters := parseApplicationFilters(c)

	applications, total, err := h.service.List(c.Request.Context(), CurrentUser(c), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", ListResponse{Items: applications, Total: total})
}

// UpdateStatus moves an application through the funnel.
// PUT /api/v1/admin/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	application, err := h.service.UpdateStatus(c.Request.Context(), CurrentUser(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "status updated", application)
}

// GetAuditTrail returns the append-only action log for an application.
// GET /api/v1/admin/applications/:id/audit
func (h *ApplicationHandler) GetAuditTrail(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.service.GetAuditTrail(c.Request.Context(), CurrentUser(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", entries)
}

func parseApplicationFilters(c *gin.Context) repositories.ApplicationFilters {
	filters := repositories.ApplicationFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if status := c.Query("status"); status != "" {
		s := models.ApplicationStatus(status)
		filters.Status = &s
	}
	if userID := c.Query("user_id"); userID != "" {
		filters.UserID = &userID
	}
	if programID, err := strconv.ParseUint(c.Query("program_id"), 10, 32); err == nil {
		id := uint(programID)
		filters.ProgramID = &id
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return filters
}
