package repositories

import (
	"context"

	"github.com/orange-studies/portal-service/internal/models"
)

// CountryRepository interface for country catalog entries
type CountryRepository interface {
	Create(ctx context.Context, country *models.Country) error
	GetByID(ctx context.Context, id uint) (*models.Country, error)
	GetBySlug(ctx context.Context, slug string) (*models.Country, error)
	Update(ctx context.Context, country *models.Country) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters CatalogFilters) ([]*models.Country, int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// UniversityRepository interface for university catalog entries
type UniversityRepository interface {
	Create(ctx context.Context, university *models.University) error
	GetByID(ctx context.Context, id uint) (*models.University, error)
	GetBySlug(ctx context.Context, slug string) (*models.University, error)
	Update(ctx context.Context, university *models.University) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters CatalogFilters) ([]*models.University, int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// ProgramRepository interface for program catalog entries
type ProgramRepository interface {
	Create(ctx context.Context, program *models.Program) error
	GetByID(ctx context.Context, id uint) (*models.Program, error)
	GetBySlug(ctx context.Context, slug string) (*models.Program, error)
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters CatalogFilters) ([]*models.Program, int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
