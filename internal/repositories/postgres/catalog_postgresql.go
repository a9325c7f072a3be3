package postgres

import (
	"context"

	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"gorm.io/gorm"
)

// ===== COUNTRY =====

type CountryPostgreSQL struct {
	db *gorm.DB
}

func NewCountryPostgreSQL(db *gorm.DB) repositories.CountryRepository {
	return &CountryPostgreSQL{db: db}
}

func (c *CountryPostgreSQL) Create(ctx context.Context, country *models.Country) error {
	return c.db.WithContext(ctx).Create(country).Error
}

func (c *CountryPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Country, error) {
	var country models.Country
	if err := c.db.WithContext(ctx).First(&country, id).Error; err != nil {
		return nil, err
	}
	return &country, nil
}

func (c *CountryPostgreSQL) GetBySlug(ctx context.Context, slug string) (*models.Country, error) {
	var country models.Country
	err := c.db.WithContext(ctx).
		Preload("Universities").
		First(&country, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &country, nil
}

func (c *CountryPostgreSQL) Update(ctx context.Context, country *models.Country) error {
	return c.db.WithContext(ctx).Save(country).Error
}

func (c *CountryPostgreSQL) Delete(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Delete(&models.Country{}, id).Error
}

func (c *CountryPostgreSQL) List(ctx context.Context, filters repositories.CatalogFilters) ([]*models.Country, int64, error) {
	query := c.db.WithContext(ctx).Model(&models.Country{})
	if filters.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "name", "asc", filters.Limit, filters.Offset, map[string]bool{"name": true})

	var countries []*models.Country
	if err := query.Find(&countries).Error; err != nil {
		return nil, 0, err
	}
	return countries, total, nil
}

func (c *CountryPostgreSQL) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.Country{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// ===== UNIVERSITY =====

type UniversityPostgreSQL struct {
	db *gorm.DB
}

func NewUniversityPostgreSQL(db *gorm.DB) repositories.UniversityRepository {
	return &UniversityPostgreSQL{db: db}
}

func (u *UniversityPostgreSQL) Create(ctx context.Context, university *models.University) error {
	return u.db.WithContext(ctx).Create(university).Error
}

func (u *UniversityPostgreSQL) GetByID(ctx context.Context, id uint) (*models.University, error) {
	var university models.University
	if err := u.db.WithContext(ctx).First(&university, id).Error; err != nil {
		return nil, err
	}
	return &university, nil
}

func (u *UniversityPostgreSQL) GetBySlug(ctx context.Context, slug string) (*models.University, error) {
	var university models.University
	err := u.db.WithContext(ctx).
		Preload("Country").
		Preload("Programs").
		First(&university, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &university, nil
}

func (u *UniversityPostgreSQL) Update(ctx context.Context, university *models.University) error {
	return u.db.WithContext(ctx).Save(university).Error
}

func (u *UniversityPostgreSQL) Delete(ctx context.Context, id uint) error {
	return u.db.WithContext(ctx).Delete(&models.University{}, id).Error
}

func (u *UniversityPostgreSQL) List(ctx context.Context, filters repositories.CatalogFilters) ([]*models.University, int64, error) {
	query := u.db.WithContext(ctx).Model(&models.University{})
	if filters.CountryID != nil {
		query = query.Where("country_id = ?", *filters.CountryID)
	}
	if filters.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "name", "asc", filters.Limit, filters.Offset, map[string]bool{"name": true, "ranking": true})

	var universities []*models.University
	if err := query.Preload("Country").Find(&universities).Error; err != nil {
		return nil, 0, err
	}
	return universities, total, nil
}

func (u *UniversityPostgreSQL) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).Model(&models.University{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// ===== PROGRAM =====

type ProgramPostgreSQL struct {
	db *gorm.DB
}

func NewProgramPostgreSQL(db *gorm.DB) repositories.ProgramRepository {
	return &ProgramPostgreSQL{db: db}
}

func (p *ProgramPostgreSQL) Create(ctx context.Context, program *models.Program) error {
	return p.db.WithContext(ctx).Create(program).Error
}

func (p *ProgramPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Program, error) {
	var program models.Program
	if err := p.db.WithContext(ctx).Preload("University").First(&program, id).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

func (p *ProgramPostgreSQL) GetBySlug(ctx context.Context, slug string) (*models.Program, error) {
	var program models.Program
	err := p.db.WithContext(ctx).
		Preload("University").
		Preload("University.Country").
		First(&program, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (p *ProgramPostgreSQL) Update(ctx context.Context, program *models.Program) error {
	return p.db.WithContext(ctx).Save(program).Error
}

func (p *ProgramPostgreSQL) Delete(ctx context.Context, id uint) error {
	return p.db.WithContext(ctx).Delete(&models.Program{}, id).Error
}

func (p *ProgramPostgreSQL) List(ctx context.Context, filters repositories.CatalogFilters) ([]*models.Program, int64, error) {
	query := p.db.WithContext(ctx).Model(&models.Program{})
	if filters.UniversityID != nil {
		query = query.Where("university_id = ?", *filters.UniversityID)
	}
	if filters.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filters.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "title", "asc", filters.Limit, filters.Offset, map[string]bool{"title": true, "tuition_fee": true})

	var programs []*models.Program
	if err := query.Preload("University").Find(&programs).Error; err != nil {
		return nil, 0, err
	}
	return programs, total, nil
}

func (p *ProgramPostgreSQL) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.Program{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
