package services

import (
	"context"
	"testing"

	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSettingsFixture() (*MockRepository, SettingsService) {
	repo := NewMockRepository()
	return repo, NewSettingsService(repo, utils.NewValidator(), newTestLogger())
}

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("patches only provided fields", func(t *testing.T) {
		repo, service := newSettingsFixture()
		current := models.DefaultSettings()
		current.SMTPHost = "smtp.old.example"
		current.MailFrom = "old@orange-studies.com"

		repo.settings.On("Get", ctx).Return(current, nil)
		repo.settings.On("Update", ctx, mock.MatchedBy(func(s *models.PortalSettings) bool {
			return s.SMTPHost == "smtp.new.example" &&
				s.MailFrom == "old@orange-studies.com" &&
				s.RequireEmailVerification
		})).Return(nil)

		host := "smtp.new.example"
		verify := true
		updated, err := service.Update(ctx, admin(), &UpdateSettingsRequest{
			SMTPHost:                 &host,
			RequireEmailVerification: &verify,
		})
		require.NoError(t, err)
		assert.Equal(t, "smtp.new.example", updated.SMTPHost)
		repo.AssertExpectations(t)
	})

	t.Run("manager cannot update", func(t *testing.T) {
		_, service := newSettingsFixture()
		port := 25
		_, err := service.Update(ctx, manager(), &UpdateSettingsRequest{SMTPPort: &port})
		assert.True(t, IsForbidden(err))
	})

	t.Run("rejects an invalid port", func(t *testing.T) {
		_, service := newSettingsFixture()
		port := 99999
		_, err := service.Update(ctx, admin(), &UpdateSettingsRequest{SMTPPort: &port})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}
