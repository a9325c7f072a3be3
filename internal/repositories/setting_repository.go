package repositories

import (
	"context"

	"github.com/orange-studies/portal-service/internal/models"
)

// SettingsRepository reads and writes the singleton portal settings row.
type SettingsRepository interface {
	// Get returns the settings row, creating it with defaults when absent.
	Get(ctx context.Context) (*models.PortalSettings, error)
	Update(ctx context.Context, settings *models.PortalSettings) error
}
