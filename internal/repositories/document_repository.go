package repositories

import (
	"context"

	"github.com/orange-studies/portal-service/internal/models"
)

// DocumentRepository interface for uploaded-document records
type DocumentRepository interface {
	Create(ctx context.Context, document *models.Document) error
	CreateBatch(ctx context.Context, documents []*models.Document) error
	GetByID(ctx context.Context, id uint) (*models.Document, error)
	Update(ctx context.Context, document *models.Document) error
	Delete(ctx context.Context, id uint) error

	GetByApplication(ctx context.Context, applicationID uint) ([]*models.Document, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Document, error)
}
