package repositories

import (
	"context"

	"github.com/orange-studies/portal-service/internal/models"
)

// ApplicationRepository interface for application records
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Application, error) // Include timeline, documents, program
	GetByRefCode(ctx context.Context, refCode string) (*models.Application, error)

	List(ctx context.Context, filters ApplicationFilters) ([]*models.Application, int64, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Application, error)

	// Status management
	UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus, progress int) error

	// Validation helpers
	ExistsForUserAndProgram(ctx context.Context, userID string, programID uint) (bool, error)
}

// TimelineRepository interface for the fixed six-step funnel rows
type TimelineRepository interface {
	CreateBatch(ctx context.Context, entries []*models.TimelineEntry) error
	GetByApplication(ctx context.Context, applicationID uint) ([]*models.TimelineEntry, error)

	// SetStage marks entries with SortOrder below stage as done, the entry at
	// stage as active, and later entries as neither.
	SetStage(ctx context.Context, applicationID uint, stage int) error
}

// AuditRepository appends action records; there is no update or delete.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	GetByApplication(ctx context.Context, applicationID uint) ([]*models.AuditLog, error)
}
