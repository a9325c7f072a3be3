package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/orange-studies/portal-service/internal/auth"
	"github.com/orange-studies/portal-service/internal/authz"
	"github.com/orange-studies/portal-service/internal/mailer"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/storage"
	"github.com/orange-studies/portal-service/internal/utils"
)

// ===== REQUEST / RESPONSE TYPES =====

type CreateStaffRequest struct {
	FullName string          `json:"fullName" validate:"required,min=1,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
}

// StaffAccountResponse carries the generated password exactly once; it is
// never retrievable again.
type StaffAccountResponse struct {
	User     *models.User `json:"user"`
	Password string       `json:"password"`
}

// AdminUserService covers the admin panel's user management.
type AdminUserService interface {
	CreateStaffAccount(ctx context.Context, actor *models.User, req *CreateStaffRequest) (*StaffAccountResponse, error)
	ChangeRole(ctx context.Context, actor *models.User, targetID string, role models.UserRole) (*models.User, error)
	DeleteUser(ctx context.Context, actor *models.User, targetID string) error
	List(ctx context.Context, actor *models.User, filters repositories.UserFilters) ([]*models.User, int64, error)
}

type adminUserService struct {
	repo      repositories.Repository
	uploader  storage.Uploader
	mail      mailer.Mailer
	validator *utils.Validator
	logger    utils.Logger
}

func NewAdminUserService(
	repo repositories.Repository,
	uploader storage.Uploader,
	mail mailer.Mailer,
	validator *utils.Validator,
	logger utils.Logger,
) AdminUserService {
	return &adminUserService{
		repo:      repo,
		uploader:  uploader,
		mail:      mail,
		validator: validator,
		logger:    logger,
	}
}

func (s *adminUserService) CreateStaffAccount(ctx context.Context, actor *models.User, req *CreateStaffRequest) (*StaffAccountResponse, error) {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}
	email := normalizeEmail(req.Email)

	exists, err := s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	password, err := auth.GenerateStaffPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	settings, _ := s.repo.Settings().Get(ctx)
	if err := s.mail.SendStaffCredentials(ctx, email, string(req.Role), password, smtpOverride(settings)); err != nil {
		s.logger.Warn("staff credentials mail failed", "user_id", user.ID, "error", err)
	}

	s.logger.Info("Staff account created", "user_id", user.ID, "role", req.Role, "actor", actor.Email)
	return &StaffAccountResponse{User: user, Password: password}, nil
}

func (s *adminUserService) ChangeRole(ctx context.Context, actor *models.User, targetID string, role models.UserRole) (*models.User, error) {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return nil, err
	}
	if actor.ID == targetID {
		return nil, ErrSelfTarget
	}

	valid := false
	for _, r := range models.ValidRoles {
		if r == role {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidRole
	}

	user, err := s.repo.User().GetByID(ctx, targetID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.repo.User().SetRole(ctx, targetID, role); err != nil {
		return nil, fmt.Errorf("failed to set role: %w", err)
	}
	user.Role = role

	s.logger.Info("User role changed", "user_id", targetID, "role", role, "actor", actor.Email)
	return user, nil
}

func (s *adminUserService) DeleteUser(ctx context.Context, actor *models.User, targetID string) error {
	if err := authz.Require(actor, authz.AdminOnly); err != nil {
		return err
	}
	if actor.ID == targetID {
		return ErrSelfTarget
	}

	if _, err := s.repo.User().GetByID(ctx, targetID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	count, err := s.repo.User().CountApplications(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to count applications: %w", err)
	}
	if count > 0 {
		return &UserHasApplicationsError{UserID: targetID, Count: count}
	}

	// Remove stored files first; failures are logged, not fatal.
	docs, err := s.repo.Document().GetByUser(ctx, targetID)
	if err == nil {
		for _, doc := range docs {
			if doc.FileURL == "" {
				continue
			}
			if err := s.uploader.Delete(ctx, doc.FileURL); err != nil {
				s.logger.Warn("blob delete failed", "document_id", doc.ID, "error", err)
			}
		}
	}

	if err := s.repo.User().Delete(ctx, targetID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted", "user_id", targetID, "actor", actor.Email)
	return nil
}

func (s *adminUserService) List(ctx context.Context, actor *models.User, filters repositories.UserFilters) ([]*models.User, int64, error) {
	if err := authz.Require(actor, authz.AdminOrManager); err != nil {
		return nil, 0, err
	}
	return s.repo.User().List(ctx, filters)
}
