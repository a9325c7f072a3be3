package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/orange-studies/portal-service/internal/events"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/utils"
)

const otpTTL = 15 * time.Minute

// OtpService issues and verifies short-lived email codes. At most one live
// code exists per (email, purpose); codes are single use.
type OtpService interface {
	// Generate replaces any existing code for the pair and returns the new
	// plaintext code for mailing.
	Generate(ctx context.Context, email string, purpose models.OtpPurpose) (string, error)

	// Verify consumes the code on success. An expired code is deleted and
	// reported as ErrExpiredOTP; an unknown code is ErrInvalidOTP.
	Verify(ctx context.Context, email, code string, purpose models.OtpPurpose) error
}

type otpService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewOtpService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger) OtpService {
	return &otpService{repo: repo, publisher: publisher, logger: logger}
}

func (s *otpService) Generate(ctx context.Context, email string, purpose models.OtpPurpose) (string, error) {
	code, err := randomOtpCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	if err := s.repo.Otp().DeleteForEmailAndPurpose(ctx, email, purpose); err != nil {
		return "", fmt.Errorf("failed to clear previous codes: %w", err)
	}

	record := &models.OtpCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := s.repo.Otp().Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store code: %w", err)
	}

	// Best-effort; the payload never carries the code itself.
	if err := s.publisher.Publish(ctx, events.NewPortalEvent(events.OtpIssued, map[string]interface{}{
		"email":   email,
		"purpose": string(purpose),
	})); err != nil {
		s.logger.Warn("failed to publish otp event", "email", email, "error", err)
	}

	s.logger.Info("OTP issued", "email", email, "purpose", purpose)
	return code, nil
}

func (s *otpService) Verify(ctx context.Context, email, code string, purpose models.OtpPurpose) error {
	record, err := s.repo.Otp().GetLatest(ctx, email, code, purpose)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("failed to look up code: %w", err)
	}

	if time.Now().After(record.ExpiresAt) {
		if err := s.repo.Otp().Delete(ctx, record.ID); err != nil {
			s.logger.Warn("failed to delete expired code", "id", record.ID, "error", err)
		}
		return ErrExpiredOTP
	}

	if err := s.repo.Otp().Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to consume code: %w", err)
	}
	return nil
}

// randomOtpCode returns a 6-digit code in [100000, 999999].
func randomOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
