package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/services"
	"github.com/orange-studies/portal-service/internal/utils"
)

// AdminHandler covers user management, portal settings and exports.
type AdminHandler struct {
	BaseHandler
	users    services.AdminUserService
	settings services.SettingsService
	export   services.ExportService
}

func NewAdminHandler(
	users services.AdminUserService,
	settings services.SettingsService,
	export services.ExportService,
	logger utils.Logger,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		users:       users,
		settings:    settings,
		export:      export,
	}
}

// ===== USERS =====

// CreateStaffAccount creates an ADMIN/MANAGER/RECRUITER account with a
// generated password returned exactly once.
// POST /api/v1/admin/users
func (h *AdminHandler) CreateStaffAccount(c *gin.Context) {
	var req services.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.users.CreateStaffAccount(c.Request.Context(), CurrentUser(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "staff account created", resp)
}

// ListUsers returns users for the admin panel.
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	filters := repositories.UserFilters{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		filters.Role = &r
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, err := h.users.List(c.Request.Context(), CurrentUser(c), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", ListResponse{Items: users, Total: total})
}

// ChangeRole updates a user's role.
// PUT /api/v1/admin/users/:id/role
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var req struct {
		Role models.UserRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "role is required", err)
		return
	}

	user, err := h.users.ChangeRole(c.Request.Context(), CurrentUser(c), c.Param("id"), req.Role)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "role updated", user)
}

// DeleteUser removes an account without applications.
// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.users.DeleteUser(c.Request.Context(), CurrentUser(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "user deleted", nil)
}

// ===== SETTINGS =====

// GetSettings returns the singleton settings row.
// GET /api/v1/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", settings)
}

// UpdateSettings patches the singleton settings row.
// PUT /api/v1/admin/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req services.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), CurrentUser(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "settings updated", settings)
}

// ===== EXPORTS =====

// ExportApplications streams an XLSX of applications matching the filters.
// GET /api/v1/admin/exports/applications
func (h *AdminHandler) ExportApplications(c *gin.Context) {
	data, err := h.export.ExportApplications(c.Request.Context(), CurrentUser(c), parseApplicationFilters(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.sendXLSX(c, "applications", data)
}

// ExportLeads streams an XLSX of leads matching the filters.
// GET /api/v1/admin/exports/leads
func (h *AdminHandler) ExportLeads(c *gin.Context) {
	filters := repositories.LeadFilters{Search: c.Query("search")}
	if handled := c.Query("handled"); handled != "" {
		v := handled == "true"
		filters.Handled = &v
	}

	data, err := h.export.ExportLeads(c.Request.Context(), CurrentUser(c), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.sendXLSX(c, "leads", data)
}

func (h *AdminHandler) sendXLSX(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
