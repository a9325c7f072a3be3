package pkg

import (
	"fmt"

	"github.com/orange-studies/portal-service/internal/config"
	"github.com/orange-studies/portal-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate applies the schema for every portal model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Country{},
		&models.University{},
		&models.Program{},
		&models.Application{},
		&models.TimelineEntry{},
		&models.Document{},
		&models.OtpCode{},
		&models.PortalSettings{},
		&models.AuditLog{},
		&models.Lead{},
	)
}
