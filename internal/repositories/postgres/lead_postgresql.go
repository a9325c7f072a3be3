package postgres

import (
	"context"

	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"gorm.io/gorm"
)

type LeadPostgreSQL struct {
	db *gorm.DB
}

func NewLeadPostgreSQL(db *gorm.DB) repositories.LeadRepository {
	return &LeadPostgreSQL{db: db}
}

func (l *LeadPostgreSQL) Create(ctx context.Context, lead *models.Lead) error {
	return l.db.WithContext(ctx).Create(lead).Error
}

func (l *LeadPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := l.db.WithContext(ctx).First(&lead, id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (l *LeadPostgreSQL) List(ctx context.Context, filters repositories.LeadFilters) ([]*models.Lead, int64, error) {
	query := l.db.WithContext(ctx).Model(&models.Lead{})
	if filters.Handled != nil {
		query = query.Where("handled = ?", *filters.Handled)
	}
	if filters.Search != "" {
		search := "%" + filters.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "created_at", "desc", filters.Limit, filters.Offset, map[string]bool{"created_at": true})

	var leads []*models.Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func (l *LeadPostgreSQL) SetHandled(ctx context.Context, id uint, handled bool) error {
	return l.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("id = ?", id).
		Update("handled", handled).Error
}
