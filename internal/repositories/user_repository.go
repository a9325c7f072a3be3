package repositories

import (
	"context"
	"time"

	"github.com/orange-studies/portal-service/internal/models"
)

// UserRepository interface for identity records
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Validation helpers
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountApplications(ctx context.Context, userID string) (int64, error)

	// Targeted writes
	SetEmailVerified(ctx context.Context, id string, verifiedAt time.Time) error
	SetPasswordHash(ctx context.Context, id string, hash string) error
	SetRole(ctx context.Context, id string, role models.UserRole) error
}
