package repositories

import (
	"context"

	"github.com/orange-studies/portal-service/internal/models"
)

// OtpRepository interface for one-time codes
type OtpRepository interface {
	Create(ctx context.Context, code *models.OtpCode) error

	// GetLatest returns the most recently created row matching all three
	// fields, or a not-found error.
	GetLatest(ctx context.Context, email, code string, purpose models.OtpPurpose) (*models.OtpCode, error)

	Delete(ctx context.Context, id uint) error

	// DeleteForEmailAndPurpose removes every code for the pair, keeping the
	// one-live-code invariant before a new code is stored.
	DeleteForEmailAndPurpose(ctx context.Context, email string, purpose models.OtpPurpose) error
}
