package services

import (
	"context"
	"testing"

	"github.com/orange-studies/portal-service/internal/cache"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture() (*MockRepository, *spyCache, CatalogService) {
	repo := NewMockRepository()
	spy := &spyCache{}
	return repo, spy, NewCatalogService(repo, spy, utils.NewValidator(), newTestLogger())
}

func TestCatalogService_CreateProgram(t *testing.T) {
	ctx := context.Background()

	t.Run("derives slug and applies defaults", func(t *testing.T) {
		repo, spy, service := newCatalogFixture()

		repo.university.On("GetByID", ctx, uint(3)).Return(&models.University{ID: 3}, nil)
		repo.program.On("ExistsBySlug", ctx, "msc-data-science-ai").Return(false, nil)
		repo.program.On("Create", ctx, mock.MatchedBy(func(p *models.Program) bool {
			return p.Slug == "msc-data-science-ai" &&
				p.Currency == "USD" &&
				p.Intake == "September" &&
				string(p.Requirements) == "[]" &&
				string(p.Modules) == "[]"
		})).Return(nil)

		program, err := service.CreateProgram(ctx, admin(), &ProgramRequest{
			UniversityID: 3,
			Title:        "MSc Data Science & AI",
		})
		require.NoError(t, err)
		assert.Equal(t, "msc-data-science-ai", program.Slug)

		// Mutations flush the whole catalog pattern.
		assert.Contains(t, spy.deletedPatterns, cache.PatternCatalog)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		repo, _, service := newCatalogFixture()
		repo.university.On("GetByID", ctx, uint(3)).Return(&models.University{ID: 3}, nil)
		repo.program.On("ExistsBySlug", ctx, "msc-cs").Return(true, nil)

		_, err := service.CreateProgram(ctx, admin(), &ProgramRequest{UniversityID: 3, Title: "MSc CS"})
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("manager cannot mutate the catalog", func(t *testing.T) {
		_, _, service := newCatalogFixture()
		_, err := service.CreateProgram(ctx, manager(), &ProgramRequest{UniversityID: 3, Title: "MSc CS"})
		assert.True(t, IsForbidden(err))
	})
}

func TestCatalogService_CreateCountry(t *testing.T) {
	ctx := context.Background()
	repo, _, service := newCatalogFixture()

	repo.country.On("ExistsBySlug", ctx, "united-kingdom").Return(false, nil)
	repo.country.On("Create", ctx, mock.MatchedBy(func(c *models.Country) bool {
		return c.Slug == "united-kingdom" && string(c.Highlights) == `["Russell Group"]`
	})).Return(nil)

	country, err := service.CreateCountry(ctx, admin(), &CountryRequest{
		Name:       "United Kingdom",
		Highlights: []string{"Russell Group"},
	})
	require.NoError(t, err)
	assert.Equal(t, "united-kingdom", country.Slug)
}

func TestCatalogService_GetProgramBySlug_WritesThroughCache(t *testing.T) {
	ctx := context.Background()
	repo, spy, service := newCatalogFixture()

	program := &models.Program{ID: 1, Slug: "msc-cs", Title: "MSc CS"}
	repo.program.On("GetBySlug", ctx, "msc-cs").Return(program, nil)

	got, err := service.GetProgramBySlug(ctx, "msc-cs")
	require.NoError(t, err)
	assert.Equal(t, "msc-cs", got.Slug)

	// A cache miss populates the catalog key for later reads.
	assert.Contains(t, spy.setKeys, cache.KeyCatalogPrefix+"program:msc-cs")
}
