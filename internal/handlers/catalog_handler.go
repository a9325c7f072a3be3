package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/services"
	"github.com/orange-studies/portal-service/internal/utils"
)

type CatalogHandler struct {
	BaseHandler
	service services.CatalogService
}

func NewCatalogHandler(service services.CatalogService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

func parseCatalogFilters(c *gin.Context) repositories.CatalogFilters {
	filters := repositories.CatalogFilters{Search: c.Query("search")}
	if countryID, err := strconv.ParseUint(c.Query("country_id"), 10, 32); err == nil {
		id := uint(countryID)
		filters.CountryID = &id
	}
	if universityID, err := strconv.ParseUint(c.Query("university_id"), 10, 32); err == nil {
		id := uint(universityID)
		filters.UniversityID = &id
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return filters
}

// ===== PUBLIC READS =====

// GET /api/v1/countries
func (h *CatalogHandler) ListCountries(c *gin.Context) {
	countries, total, err := h.service.ListCountries(c.Request.Context(), parseCatalogFilters(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", ListResponse{Items: countries, Total: total})
}

// GET /api/v1/universities
func (h *CatalogHandler) ListUniversities(c *gin.Context) {
	universities, total, err := h.service.ListUniversities(c.Request.Context(), parseCatalogFilters(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", ListResponse{Items: universities, Total: total})
}

// GET /api/v1/universities/:slug
func (h *CatalogHandler) GetUniversity(c *gin.Context) {
	university, err := h.service.GetUniversityBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", university)
}

// GET /api/v1/programs
func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	programs, total, err := h.service.ListPrograms(c.Request.Context(), parseCatalogFilters(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", ListResponse{Items: programs, Total: total})
}

// GET /api/v1/programs/:slug
func (h *CatalogHandler) GetProgram(c *gin.Context) {
	program, err := h.service.GetProgramBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "", program)
}

// ===== ADMIN MUTATIONS =====

// POST /api/v1/admin/countries
func (h *CatalogHandler) CreateCountry(c *gin.Context) {
	var req services.CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	country, err := h.service.CreateCountry(c.Request.Context(), CurrentUser(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "country created", country)
}

// PUT /api/v1/admin/countries/:id
func (h *CatalogHandler) UpdateCountry(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	country, err := h.service.UpdateCountry(c.Request.Context(), CurrentUser(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "country updated", country)
}

// DELETE /api/v1/admin/countries/:id
func (h *CatalogHandler) DeleteCountry(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCountry(c.Request.Context(), CurrentUser(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "country deleted", nil)
}

// POST /api/v1/admin/universities
func (h *CatalogHandler) CreateUniversity(c *gin.Context) {
	var req services.UniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	university, err := h.service.CreateUniversity(c.Request.Context(), CurrentUser(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "university created", university)
}

// PUT /api/v1/admin/universities/:id
func (h *CatalogHandler) UpdateUniversity(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.UniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	university, err := h.service.UpdateUniversity(c.Request.Context(), CurrentUser(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "university updated", university)
}

// DELETE /api/v1/admin/universities/:id
func (h *CatalogHandler) DeleteUniversity(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteUniversity(c.Request.Context(), CurrentUser(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "university deleted", nil)
}

// POST /api/v1/admin/programs
func (h *CatalogHandler) CreateProgram(c *gin.Context) {
	var req services.ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	program, err := h.service.CreateProgram(c.Request.Context(), CurrentUser(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "program created", program)
}

// PUT /api/v1/admin/programs/:id
func (h *CatalogHandler) UpdateProgram(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	program, err := h.service.UpdateProgram(c.Request.Context(), CurrentUser(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "program updated", program)
}

// DELETE /api/v1/admin/programs/:id
func (h *CatalogHandler) DeleteProgram(c *gin.Context) {
	id, ok := h.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteProgram(c.Request.Context(), CurrentUser(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "program deleted", nil)
}
