package services

import (
	"context"
	"fmt"

	"github.com/orange-studies/portal-service/internal/authz"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/utils"
)

type UpdateSettingsRequest struct {
	SMTPHost     *string `json:"smtpHost" validate:"omitempty,max=255"`
	SMTPPort     *int    `json:"smtpPort" validate:"omitempty,gt=0,lte=65535"`
	SMTPUser     *string `json:"smtpUser" validate:"omitempty,max=255"`
	SMTPPassword *string `json:"smtpPassword" validate:"omitempty,max=255"`
	MailFrom     *string `json:"mailFrom" validate:"omitempty,max=255"`

	RequireEmailVerification *bool `json:"requireEmailVerification"`
}

// SettingsService reads and updates the singleton portal settings row.
type SettingsService interface {
	Get(ctx context.Context) (*models.PortalSettings, error)
	Update(ctx context.Context, actor *models.User, req *UpdateSettingsRequest) (*models.PortalSettings, error)
}

type settingsService struct {
	repo      repositories.Repository
	validator *utils.Validator
	logger    utils.Logger
}

func NewSettingsService(repo repositories.Repository, validator *utils.Validator, logger utils.Logger) SettingsService {
	return &settingsService{repo: repo, validator: validator, logger: logger}
}

func (s *settingsService) Get(ctx context.Context) (*models.PortalSettings, error) {
	settings, err := s.repo.Settings().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, actor *models.User, req *UpdateSettingsRequest) (*models.PortalSettings, error) {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	settings, err := s.repo.Settings().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if req.SMTPHost != nil {
		settings.SMTPHost = *req.SMTPHost
	}
	if req.SMTPPort != nil {
		settings.SMTPPort = *req.SMTPPort
	}
	if req.SMTPUser != nil {
		settings.SMTPUser = *req.SMTPUser
	}
	if req.SMTPPassword != nil {
		settings.SMTPPassword = *req.SMTPPassword
	}
	if req.MailFrom != nil {
		settings.MailFrom = *req.MailFrom
	}
	if req.RequireEmailVerification != nil {
		settings.RequireEmailVerification = *req.RequireEmailVerification
	}

	if err := s.repo.Settings().Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.logger.Info("Portal settings updated", "actor", actor.Email)
	return settings, nil
}
