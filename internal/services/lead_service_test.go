package services

import (
	"context"
	"testing"

	"github.com/orange-studies/portal-service/internal/events"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLeadFixture() (*MockRepository, *events.MockEventPublisher, LeadService) {
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher()
	return repo, publisher, NewLeadService(repo, publisher, utils.NewValidator(), newTestLogger())
}

func TestLeadService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the enquiry and publishes an event", func(t *testing.T) {
		repo, publisher, service := newLeadFixture()
		repo.lead.On("Create", ctx, mock.MatchedBy(func(l *models.Lead) bool {
			return l.Name == "Jordan Lee" && l.Email == "jordan@x.com" && l.Source == "homepage"
		})).Return(nil)

		lead, err := service.Create(ctx, &CreateLeadRequest{
			Name:   "  Jordan Lee  ",
			Email:  "Jordan@X.com",
			Source: "homepage",
		})
		require.NoError(t, err)
		assert.Equal(t, "jordan@x.com", lead.Email)

		require.Len(t, publisher.Events, 1)
		assert.Equal(t, events.LeadCreated, publisher.Events[0].Type)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an invalid email", func(t *testing.T) {
		_, _, service := newLeadFixture()
		_, err := service.Create(ctx, &CreateLeadRequest{Name: "X", Email: "not-an-email"})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestLeadService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("staff only", func(t *testing.T) {
		_, _, service := newLeadFixture()
		_, _, err := service.List(ctx, student(), repositories.LeadFilters{})
		assert.True(t, IsForbidden(err))
	})

	t.Run("manager can list", func(t *testing.T) {
		repo, _, service := newLeadFixture()
		repo.lead.On("List", ctx, mock.Anything).Return([]*models.Lead{{ID: 1}}, int64(1), nil)

		leads, total, err := service.List(ctx, manager(), repositories.LeadFilters{})
		require.NoError(t, err)
		assert.Len(t, leads, 1)
		assert.Equal(t, int64(1), total)
	})
}

func TestLeadService_MarkHandled(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, _, service := newLeadFixture()
		repo.lead.On("GetByID", ctx, uint(7)).Return(&models.Lead{ID: 7}, nil)
		repo.lead.On("SetHandled", ctx, uint(7), true).Return(nil)

		lead, err := service.MarkHandled(ctx, manager(), 7, true)
		require.NoError(t, err)
		assert.True(t, lead.Handled)
	})

	t.Run("unknown lead", func(t *testing.T) {
		repo, _, service := newLeadFixture()
		repo.lead.On("GetByID", ctx, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.MarkHandled(ctx, manager(), 99, true)
		assert.ErrorIs(t, err, ErrLeadNotFound)
	})

	t.Run("students rejected", func(t *testing.T) {
		_, _, service := newLeadFixture()
		_, err := service.MarkHandled(ctx, student(), 7, true)
		assert.True(t, IsForbidden(err))
	})
}
