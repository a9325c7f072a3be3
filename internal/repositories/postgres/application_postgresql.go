package postgres

import (
	"context"
	"time"

	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"gorm.io/gorm"
)

type ApplicationPostgreSQL struct {
	db *gorm.DB
}

func NewApplicationPostgreSQL(db *gorm.DB) repositories.ApplicationRepository {
	return &ApplicationPostgreSQL{db: db}
}

func (a *ApplicationPostgreSQL) Create(ctx context.Context, application *models.Application) error {
	return a.db.WithContext(ctx).Create(application).Error
}

func (a *ApplicationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var application models.Application
	err := a.db.WithContext(ctx).First(&application, id).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// GetByIDWithDetails retrieves an application with timeline, documents and
// program preloaded, timeline in funnel order.
func (a *ApplicationPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Application, error) {
	var application models.Application
	err := a.db.WithContext(ctx).
		Preload("Program").
		Preload("Program.University").
		Preload("Documents").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&application, id).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (a *ApplicationPostgreSQL) GetByRefCode(ctx context.Context, refCode string) (*models.Application, error) {
	var application models.Application
	err := a.db.WithContext(ctx).First(&application, "ref_code = ?", refCode).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// List retrieves applications with filters and pagination
func (a *ApplicationPostgreSQL) List(ctx context.Context, filters repositories.ApplicationFilters) ([]*models.Application, int64, error) {
	query := a.db.WithContext(ctx).Model(&models.Application{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.ProgramID != nil {
		query = query.Where("program_id = ?", *filters.ProgramID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset, map[string]bool{
		"created_at": true,
		"status":     true,
		"ref_code":   true,
	})

	var applications []*models.Application
	err := query.Preload("User").Preload("Program").Find(&applications).Error
	if err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

func (a *ApplicationPostgreSQL) GetByUser(ctx context.Context, userID string) ([]*models.Application, error) {
	var applications []*models.Application
	err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Program").
		Preload("Program.University").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Documents").
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (a *ApplicationPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus, progress int) error {
	return a.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"progress":   progress,
			"updated_at": time.Now(),
		}).Error
}

func (a *ApplicationPostgreSQL) ExistsForUserAndProgram(ctx context.Context, userID string, programID uint) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("user_id = ? AND program_id = ?", userID, programID).
		Count(&count).Error
	return count > 0, err
}

// ===== TIMELINE =====

type TimelinePostgreSQL struct {
	db *gorm.DB
}

func NewTimelinePostgreSQL(db *gorm.DB) repositories.TimelineRepository {
	return &TimelinePostgreSQL{db: db}
}

func (t *TimelinePostgreSQL) CreateBatch(ctx context.Context, entries []*models.TimelineEntry) error {
	return t.db.WithContext(ctx).Create(entries).Error
}

func (t *TimelinePostgreSQL) GetByApplication(ctx context.Context, applicationID uint) ([]*models.TimelineEntry, error) {
	var entries []*models.TimelineEntry
	err := t.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("sort_order ASC").
		Find(&entries).Error
	return entries, err
}

// SetStage rewrites done/active flags so the stored timeline follows the
// application status: steps before stage are done, the step at stage is
// active, later steps are reset.
func (t *TimelinePostgreSQL) SetStage(ctx context.Context, applicationID uint, stage int) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TimelineEntry{}).
			Where("application_id = ? AND sort_order < ?", applicationID, stage).
			Updates(map[string]interface{}{"done": true, "active": false}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TimelineEntry{}).
			Where("application_id = ? AND sort_order = ?", applicationID, stage).
			Updates(map[string]interface{}{"done": false, "active": true}).Error; err != nil {
			return err
		}
		return tx.Model(&models.TimelineEntry{}).
			Where("application_id = ? AND sort_order > ?", applicationID, stage).
			Updates(map[string]interface{}{"done": false, "active": false}).Error
	})
}

// ===== AUDIT =====

type AuditPostgreSQL struct {
	db *gorm.DB
}

func NewAuditPostgreSQL(db *gorm.DB) repositories.AuditRepository {
	return &AuditPostgreSQL{db: db}
}

func (a *AuditPostgreSQL) Create(ctx context.Context, entry *models.AuditLog) error {
	return a.db.WithContext(ctx).Create(entry).Error
}

func (a *AuditPostgreSQL) GetByApplication(ctx context.Context, applicationID uint) ([]*models.AuditLog, error) {
	var entries []*models.AuditLog
	err := a.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
