package postgres

import (
	"context"

	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"gorm.io/gorm"
)

type DocumentPostgreSQL struct {
	db *gorm.DB
}

func NewDocumentPostgreSQL(db *gorm.DB) repositories.DocumentRepository {
	return &DocumentPostgreSQL{db: db}
}

func (d *DocumentPostgreSQL) Create(ctx context.Context, document *models.Document) error {
	return d.db.WithContext(ctx).Create(document).Error
}

func (d *DocumentPostgreSQL) CreateBatch(ctx context.Context, documents []*models.Document) error {
	return d.db.WithContext(ctx).Create(documents).Error
}

func (d *DocumentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	var document models.Document
	err := d.db.WithContext(ctx).First(&document, id).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func (d *DocumentPostgreSQL) Update(ctx context.Context, document *models.Document) error {
	return d.db.WithContext(ctx).Save(document).Error
}

func (d *DocumentPostgreSQL) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&models.Document{}, id).Error
}

func (d *DocumentPostgreSQL) GetByApplication(ctx context.Context, applicationID uint) ([]*models.Document, error) {
	var documents []*models.Document
	err := d.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("id ASC").
		Find(&documents).Error
	return documents, err
}

func (d *DocumentPostgreSQL) GetByUser(ctx context.Context, userID string) ([]*models.Document, error) {
	var documents []*models.Document
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&documents).Error
	return documents, err
}
