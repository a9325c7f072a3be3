package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/orange-studies/portal-service/internal/authz"
	"github.com/orange-studies/portal-service/internal/cache"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/utils"
	"gorm.io/datatypes"
)

const catalogCacheTTL = 10 * time.Minute

// ===== REQUEST TYPES =====

type CountryRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	FlagURL     string   `json:"flagUrl" validate:"omitempty,url,max=500"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

type UniversityRequest struct {
	CountryID   uint     `json:"countryId" validate:"required"`
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	City        string   `json:"city" validate:"omitempty,max=100"`
	LogoURL     string   `json:"logoUrl" validate:"omitempty,url,max=500"`
	CoverURL    string   `json:"coverUrl" validate:"omitempty,url,max=500"`
	Ranking     *int     `json:"ranking"`
	Description string   `json:"description"`
	Facts       []string `json:"facts"`
}

type ProgramRequest struct {
	UniversityID uint     `json:"universityId" validate:"required"`
	Title        string   `json:"title" validate:"required,min=1,max=200"`
	Degree       string   `json:"degree" validate:"omitempty,max=50"`
	DurationText string   `json:"durationText" validate:"omitempty,max=50"`
	TuitionFee   float64  `json:"tuitionFee" validate:"omitempty,gte=0"`
	Currency     string   `json:"currency" validate:"omitempty,len=3"`
	Intake       string   `json:"intake" validate:"omitempty,max=50"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Modules      []string `json:"modules"`
}

// CatalogService owns the public country/university/program catalog. Reads
// are cached; every admin mutation invalidates the whole catalog pattern.
type CatalogService interface {
	CreateCountry(ctx context.Context, actor *models.User, req *CountryRequest) (*models.Country, error)
	UpdateCountry(ctx context.Context, actor *models.User, id uint, req *CountryRequest) (*models.Country, error)
	DeleteCountry(ctx context.Context, actor *models.User, id uint) error
	ListCountries(ctx context.Context, filters repositories.CatalogFilters) ([]*models.Country, int64, error)

	CreateUniversity(ctx context.Context, actor *models.User, req *UniversityRequest) (*models.University, error)
	UpdateUniversity(ctx context.Context, actor *models.User, id uint, req *UniversityRequest) (*models.University, error)
	DeleteUniversity(ctx context.Context, actor *models.User, id uint) error
	ListUniversities(ctx context.Context, filters repositories.CatalogFilters) ([]*models.University, int64, error)
	GetUniversityBySlug(ctx context.Context, slug string) (*models.University, error)

	CreateProgram(ctx context.Context, actor *models.User, req *ProgramRequest) (*models.Program, error)
	UpdateProgram(ctx context.Context, actor *models.User, id uint, req *ProgramRequest) (*models.Program, error)
	DeleteProgram(ctx context.Context, actor *models.User, id uint) error
	ListPrograms(ctx context.Context, filters repositories.CatalogFilters) ([]*models.Program, int64, error)
	GetProgramBySlug(ctx context.Context, slug string) (*models.Program, error)
}

type catalogService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	validator *utils.Validator
	logger    utils.Logger
}

func NewCatalogService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	validator *utils.Validator,
	logger utils.Logger,
) CatalogService {
	return &catalogService{
		repo:      repo,
		cache:     cacheService,
		validator: validator,
		logger:    logger,
	}
}

// jsonList marshals a string slice into a JSON column, defaulting to an
// empty array rather than null.
func jsonList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return datatypes.JSON(data)
}

func (s *catalogService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, cache.PatternCatalog); err != nil {
		s.logger.Warn("catalog cache invalidation failed", "error", err)
	}
}

// ===== COUNTRIES =====

func (s *catalogService) CreateCountry(ctx context.Context, actor *models.User, req *CountryRequest) (*models.Country, error) {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	slug := utils.Slugify(req.Name)
	taken, err := s.repo.Country().ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return nil, ErrSlugTaken
	}

	country := &models.Country{
		Name:        req.Name,
		Slug:        slug,
		FlagURL:     req.FlagURL,
		Description: req.Description,
		Highlights:  jsonList(req.Highlights),
	}
	if err := s.repo.Country().Create(ctx, country); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create country: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info("Country created", "country_id", country.ID, "slug", slug, "actor", actor.Email)
	return country, nil
}

func (s *catalogService) UpdateCountry(ctx context.Context, actor *models.User, id uint, req *CountryRequest) (*models.Country, error) {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	country, err := s.repo.Country().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCountryNotFound
		}
		return nil, fmt.Errorf("failed to load country: %w", err)
	}

	country.Name = req.Name
	country.Slug = utils.Slugify(req.Name)
	country.FlagURL = req.FlagURL
	country.Description = req.Description
	country.Highlights = jsonList(req.Highlights)

	if err := s.repo.Country().Update(ctx, country); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update country: %w", err)
	}

	s.invalidate(ctx)
	return country, nil
}

func (s *catalogService) DeleteCountry(ctx context.Context, actor *models.User, id uint) error {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return err
	}
	if err := s.repo.Country().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCountryNotFound
		}
		return fmt.Errorf("failed to delete country: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) ListCountries(ctx context.Context, filters repositories.CatalogFilters) ([]*models.Country, int64, error) {
	type cached struct {
		Items []*models.Country `json:"items"`
		Total int64             `json:"total"`
	}

	key := fmt.Sprintf("%scountries:%s:%d:%d", cache.KeyCatalogPrefix, filters.Search, filters.Limit, filters.Offset)
	var hit cached
	if err := s.cache.Get(ctx, key, &hit); err == nil {
		return hit.Items, hit.Total, nil
	}

	items, total, err := s.repo.Country().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list countries: %w", err)
	}

	if err := s.cache.Set(ctx, key, cached{Items: items, Total: total}, catalogCacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return items, total, nil
}

// ===== UNIVERSITIES =====

func (s *catalogService) CreateUniversity(ctx context.Context, actor *models.User, req *UniversityRequest) (*models.University, error) {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	if _, err := s.repo.Country().GetByID(ctx, req.CountryID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCountryNotFound
		}
		return nil, fmt.Errorf("failed to load country: %w", err)
	}

	slug := utils.Slugify(req.Name)
	taken, err := s.repo.University().ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return nil, ErrSlugTaken
	}

	university := &models.University{
		CountryID:   req.CountryID,
		Name:        req.Name,
		Slug:        slug,
		City:        req.City,
		LogoURL:     req.LogoURL,
		CoverURL:    req.CoverURL,
		Ranking:     req.Ranking,
		Description: req.Description,
		Facts:       jsonList(req.Facts),
	}
	if err := s.repo.University().Create(ctx, university); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create university: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info("University created", "university_id", university.ID, "slug", slug, "actor", actor.Email)
	return university, nil
}

func (s *catalogService) UpdateUniversity(ctx context.Context, actor *models.User, id uint, req *UniversityRequest) (*models.University, error) {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	university, err := s.repo.University().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load university: %w", err)
	}

	university.CountryID = req.CountryID
	university.Name = req.Name
	university.Slug = utils.Slugify(req.Name)
	university.City = req.City
	university.LogoURL = req.LogoURL
	university.CoverURL = req.CoverURL
	university.Ranking = req.Ranking
	university.Description = req.Description
	university.Facts = jsonList(req.Facts)

	if err := s.repo.University().Update(ctx, university); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update university: %w", err)
	}

	s.invalidate(ctx)
	return university, nil
}

func (s *catalogService) DeleteUniversity(ctx context.Context, actor *models.User, id uint) error {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return err
	}
	if err := s.repo.University().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete university: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) ListUniversities(ctx context.Context, filters repositories.CatalogFilters) ([]*models.University, int64, error) {
	type cached struct {
		Items []*models.University `json:"items"`
		Total int64                `json:"total"`
	}

	countryID := uint(0)
	if filters.CountryID != nil {
		countryID = *filters.CountryID
	}
	key := fmt.Sprintf("%suniversities:%d:%s:%d:%d", cache.KeyCatalogPrefix, countryID, filters.Search, filters.Limit, filters.Offset)
	var hit cached
	if err := s.cache.Get(ctx, key, &hit); err == nil {
		return hit.Items, hit.Total, nil
	}

	items, total, err := s.repo.University().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list universities: %w", err)
	}

	if err := s.cache.Set(ctx, key, cached{Items: items, Total: total}, catalogCacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return items, total, nil
}

func (s *catalogService) GetUniversityBySlug(ctx context.Context, slug string) (*models.University, error) {
	key := cache.KeyCatalogPrefix + "university:" + slug
	var hit models.University
	if err := s.cache.Get(ctx, key, &hit); err == nil {
		return &hit, nil
	}

	university, err := s.repo.University().GetBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load university: %w", err)
	}

	if err := s.cache.Set(ctx, key, university, catalogCacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return university, nil
}

// ===== PROGRAMS =====

func (s *catalogService) CreateProgram(ctx context.Context, actor *models.User, req *ProgramRequest) (*models.Program, error) {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	if _, err := s.repo.University().GetByID(ctx, req.UniversityID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load university: %w", err)
	}

	slug := utils.Slugify(req.Title)
	taken, err := s.repo.Program().ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return nil, ErrSlugTaken
	}

	program := &models.Program{
		UniversityID: req.UniversityID,
		Title:        req.Title,
		Slug:         slug,
		Degree:       req.Degree,
		DurationText: req.DurationText,
		TuitionFee:   req.TuitionFee,
		Currency:     req.Currency,
		Intake:       req.Intake,
		Description:  req.Description,
		Requirements: jsonList(req.Requirements),
		Modules:      jsonList(req.Modules),
	}
	if program.Currency == "" {
		program.Currency = "USD"
	}
	if program.Intake == "" {
		program.Intake = "September"
	}

	if err := s.repo.Program().Create(ctx, program); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info("Program created", "program_id", program.ID, "slug", slug, "actor", actor.Email)
	return program, nil
}

func (s *catalogService) UpdateProgram(ctx context.Context, actor *models.User, id uint, req *ProgramRequest) (*models.Program, error) {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	program, err := s.repo.Program().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	program.UniversityID = req.UniversityID
	program.Title = req.Title
	program.Slug = utils.Slugify(req.Title)
	program.Degree = req.Degree
	program.DurationText = req.DurationText
	program.TuitionFee = req.TuitionFee
	program.Description = req.Description
	program.Requirements = jsonList(req.Requirements)
	program.Modules = jsonList(req.Modules)
	if req.Currency != "" {
		program.Currency = req.Currency
	}
	if req.Intake != "" {
		program.Intake = req.Intake
	}

	if err := s.repo.Program().Update(ctx, program); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update program: %w", err)
	}

	s.invalidate(ctx)
	return program, nil
}

func (s *catalogService) DeleteProgram(ctx context.Context, actor *models.User, id uint) error {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return err
	}
	if err := s.repo.Program().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProgramNotFound
		}
		return fmt.Errorf("failed to delete program: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) ListPrograms(ctx context.Context, filters repositories.CatalogFilters) ([]*models.Program, int64, error) {
	type cached struct {
		Items []*models.Program `json:"items"`
		Total int64             `json:"total"`
	}

	universityID := uint(0)
	if filters.UniversityID != nil {
		universityID = *filters.UniversityID
	}
	key := fmt.Sprintf("%sprograms:%d:%s:%d:%d", cache.KeyCatalogPrefix, universityID, filters.Search, filters.Limit, filters.Offset)
	var hit cached
	if err := s.cache.Get(ctx, key, &hit); err == nil {
		return hit.Items, hit.Total, nil
	}

	items, total, err := s.repo.Program().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list programs: %w", err)
	}

	if err := s.cache.Set(ctx, key, cached{Items: items, Total: total}, catalogCacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return items, total, nil
}

func (s *catalogService) GetProgramBySlug(ctx context.Context, slug string) (*models.Program, error) {
	key := cache.KeyCatalogPrefix + "program:" + slug
	var hit models.Program
	if err := s.cache.Get(ctx, key, &hit); err == nil {
		return &hit, nil
	}

	program, err := s.repo.Program().GetBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	if err := s.cache.Set(ctx, key, program, catalogCacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return program, nil
}
