package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/orange-studies/portal-service/internal/authz"
	"github.com/orange-studies/portal-service/internal/events"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/utils"
)

type CreateLeadRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Message string `json:"message" validate:"omitempty,max=2000"`
	Source  string `json:"source" validate:"omitempty,max=50"`
}

// LeadService records public contact-form enquiries for staff follow-up.
type LeadService interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*models.Lead, error)
	List(ctx context.Context, actor *models.User, filters repositories.LeadFilters) ([]*models.Lead, int64, error)
	MarkHandled(ctx context.Context, actor *models.User, id uint, handled bool) (*models.Lead, error)
}

type leadService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	validator *utils.Validator
	logger    utils.Logger
}

func NewLeadService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	validator *utils.Validator,
	logger utils.Logger,
) LeadService {
	return &leadService{repo: repo, publisher: publisher, validator: validator, logger: logger}
}

func (s *leadService) Create(ctx context.Context, req *CreateLeadRequest) (*models.Lead, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	lead := &models.Lead{
		Name:    strings.TrimSpace(req.Name),
		Email:   normalizeEmail(req.Email),
		Phone:   req.Phone,
		Message: req.Message,
		Source:  req.Source,
	}
	if err := s.repo.Lead().Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewPortalEvent(events.LeadCreated, map[string]interface{}{
		"lead_id": lead.ID,
		"email":   lead.Email,
		"source":  lead.Source,
	})); err != nil {
		s.logger.Warn("failed to publish lead event", "lead_id", lead.ID, "error", err)
	}

	s.logger.Info("Lead created", "lead_id", lead.ID, "source", lead.Source)
	return lead, nil
}

func (s *leadService) List(ctx context.Context, actor *models.User, filters repositories.LeadFilters) ([]*models.Lead, int64, error) {
	if err := authz.Require(actor, authz.AdminOrManager); err != nil {
		return nil, 0, err
	}
	return s.repo.Lead().List(ctx, filters)
}

func (s *leadService) MarkHandled(ctx context.Context, actor *models.User, id uint, handled bool) (*models.Lead, error) {
	if err := authz.Require(actor, authz.AdminOrManager); err != nil {
		return nil, err
	}

	lead, err := s.repo.Lead().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to load lead: %w", err)
	}

	if err := s.repo.Lead().SetHandled(ctx, id, handled); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	lead.Handled = handled
	return lead, nil
}
