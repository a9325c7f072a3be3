package postgres

import (
	"context"
	"errors"

	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"gorm.io/gorm"
)

type SettingsPostgreSQL struct {
	db *gorm.DB
}

func NewSettingsPostgreSQL(db *gorm.DB) repositories.SettingsRepository {
	return &SettingsPostgreSQL{db: db}
}

// Get returns the singleton row, creating it with defaults on first read.
func (s *SettingsPostgreSQL) Get(ctx context.Context) (*models.PortalSettings, error) {
	var settings models.PortalSettings
	err := s.db.WithContext(ctx).First(&settings, "id = ?", models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultSettings()
		if err := s.db.WithContext(ctx).Create(defaults).Error; err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *SettingsPostgreSQL) Update(ctx context.Context, settings *models.PortalSettings) error {
	settings.ID = models.SettingsID
	return s.db.WithContext(ctx).Save(settings).Error
}
