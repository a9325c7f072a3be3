package repositories

import (
	"time"

	"github.com/orange-studies/portal-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// NoLimit in a filter's Limit field disables pagination for that query.
// Zero still means "default page size"; exports are the intended caller.
const NoLimit = -1

type UserFilters struct {
	Role      *models.UserRole `json:"role"`
	Search    string           `json:"search"` // matches name or email
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	SortBy    string           `json:"sort_by"`    // "created_at", "full_name", "email"
	SortOrder string           `json:"sort_order"` // "asc", "desc"
}

type ApplicationFilters struct {
	Status    *models.ApplicationStatus `json:"status"`
	UserID    *string                   `json:"user_id"`
	ProgramID *uint                     `json:"program_id"`
	DateFrom  *time.Time                `json:"date_from"`
	DateTo    *time.Time                `json:"date_to"`
	Limit     int                       `json:"limit"`
	Offset    int                       `json:"offset"`
	SortBy    string                    `json:"sort_by"`
	SortOrder string                    `json:"sort_order"`
}

type LeadFilters struct {
	Handled *bool  `json:"handled"`
	Search  string `json:"search"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
}

type CatalogFilters struct {
	CountryID    *uint  `json:"country_id"`
	UniversityID *uint  `json:"university_id"`
	Search       string `json:"search"`
	Limit        int    `json:"limit"`
	Offset       int    `json:"offset"`
}
