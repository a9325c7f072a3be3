package repositories

import (
	"context"

	"github.com/orange-studies/portal-service/internal/models"
)

// LeadRepository interface for contact-form enquiries
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id uint) (*models.Lead, error)
	List(ctx context.Context, filters LeadFilters) ([]*models.Lead, int64, error)
	SetHandled(ctx context.Context, id uint, handled bool) error
}
