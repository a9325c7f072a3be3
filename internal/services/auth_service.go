package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/orange-studies/portal-service/internal/auth"
	"github.com/orange-studies/portal-service/internal/mailer"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/utils"
)

const (
	registrationWindow = 5 * time.Minute
	registrationBurst  = 10
)

// ===== REQUEST / RESPONSE TYPES =====

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required,min=3,max=30"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Otp         string `json:"otp" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type UpdateProfileRequest struct {
	FullName    *string `json:"fullName" validate:"omitempty,min=1,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	Nationality *string `json:"nationality" validate:"omitempty,max=100"`
	City        *string `json:"city" validate:"omitempty,max=100"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,url,max=500"`
}

// AuthResponse carries the outcome of register/login/verify. Token is empty
// while email verification is still pending.
type AuthResponse struct {
	Token                string       `json:"token,omitempty"`
	User                 *models.User `json:"user"`
	RequiresVerification bool         `json:"requiresVerification,omitempty"`
}

// AuthService handles registration, sessions and account recovery.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	VerifyEmail(ctx context.Context, email, code string) (*AuthResponse, error)
	ResendOtp(ctx context.Context, email string, purpose models.OtpPurpose) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error

	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

type authService struct {
	repo      repositories.Repository
	tokens    *auth.TokenManager
	otp       OtpService
	mail      mailer.Mailer
	validator *utils.Validator
	logger    utils.Logger
}

func NewAuthService(
	repo repositories.Repository,
	tokens *auth.TokenManager,
	otp OtpService,
	mail mailer.Mailer,
	validator *utils.Validator,
	logger utils.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		otp:       otp,
		mail:      mail,
		validator: validator,
		logger:    logger,
	}
}

// smtpOverride maps the settings row onto the mailer's per-send override.
func smtpOverride(settings *models.PortalSettings) mailer.SMTPOverride {
	if settings == nil {
		return mailer.SMTPOverride{}
	}
	return mailer.SMTPOverride{
		Host:     settings.SMTPHost,
		Port:     settings.SMTPPort,
		User:     settings.SMTPUser,
		Password: settings.SMTPPassword,
		From:     settings.MailFrom,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}
	email := normalizeEmail(req.Email)

	// Global throttle on account creation.
	recent, err := s.repo.User().CountCreatedSince(ctx, time.Now().Add(-registrationWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to check registration rate: %w", err)
	}
	if recent >= registrationBurst {
		return nil, ErrRateLimited
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	settings, err := s.repo.Settings().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	user := &models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		Phone:        &req.Phone,
	}
	if !settings.RequireEmailVerification {
		now := time.Now()
		user.EmailVerifiedAt = &now
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "verification_required", settings.RequireEmailVerification)

	if settings.RequireEmailVerification {
		code, err := s.otp.Generate(ctx, email, models.OtpVerify)
		if err != nil {
			return nil, err
		}
		if err := s.mail.SendOtp(ctx, email, code, string(models.OtpVerify), smtpOverride(settings)); err != nil {
			return nil, fmt.Errorf("failed to send verification mail: %w", err)
		}
		return &AuthResponse{User: user, RequiresVerification: true}, nil
	}

	if err := s.mail.SendWelcome(ctx, email, user.FullName, smtpOverride(settings)); err != nil {
		s.logger.Warn("welcome mail failed", "user_id", user.ID, "error", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	user, err := s.repo.User().GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	if user.Role == models.RoleStudent && user.EmailVerifiedAt == nil {
		settings, err := s.repo.Settings().Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		if settings.RequireEmailVerification {
			return nil, ErrEmailNotVerified
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, email, code string) (*AuthResponse, error) {
	email = normalizeEmail(email)

	if err := s.otp.Verify(ctx, email, code, models.OtpVerify); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	now := time.Now()
	if err := s.repo.User().SetEmailVerified(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to mark email verified: %w", err)
	}
	user.EmailVerifiedAt = &now

	settings, err := s.repo.Settings().Get(ctx)
	if err == nil {
		if mailErr := s.mail.SendWelcome(ctx, email, user.FullName, smtpOverride(settings)); mailErr != nil {
			s.logger.Warn("welcome mail failed", "user_id", user.ID, "error", mailErr)
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("Email verified", "user_id", user.ID)
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) ResendOtp(ctx context.Context, email string, purpose models.OtpPurpose) error {
	email = normalizeEmail(email)
	if purpose != models.OtpVerify && purpose != models.OtpReset {
		return fmt.Errorf("%w: unknown purpose", ErrValidationFailed)
	}

	// Same anti-enumeration stance as ForgotPassword.
	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if purpose == models.OtpVerify && user.EmailVerifiedAt != nil {
		return nil
	}

	code, err := s.otp.Generate(ctx, email, purpose)
	if err != nil {
		return err
	}

	settings, _ := s.repo.Settings().Get(ctx)
	return s.mail.SendOtp(ctx, email, code, string(purpose), smtpOverride(settings))
}

// ForgotPassword always reports success so callers cannot probe for accounts.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	_, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	code, err := s.otp.Generate(ctx, email, models.OtpReset)
	if err != nil {
		return err
	}

	settings, _ := s.repo.Settings().Get(ctx)
	if err := s.mail.SendOtp(ctx, email, code, string(models.OtpReset), smtpOverride(settings)); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}
	email := normalizeEmail(req.Email)

	if err := s.otp.Verify(ctx, email, req.Otp, models.OtpReset); err != nil {
		return err
	}

	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.User().SetPasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}

	s.logger.Info("Password reset", "user_id", user.ID)
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Nationality != nil {
		user.Nationality = req.Nationality
	}
	if req.City != nil {
		user.City = req.City
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidationFailed)
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.User().SetPasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}

	s.logger.Info("Password changed", "user_id", userID)
	return nil
}
