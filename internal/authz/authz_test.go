package authz

import (
	"errors"
	"testing"

	"github.com/orange-studies/portal-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	tests := []struct {
		name    string
		actor   *models.User
		policy  Policy
		allowed bool
	}{
		{"nil actor", nil, AdminOrManager, false},
		{"admin passes AdminOnly", &models.User{Role: models.RoleAdmin}, AdminOnly, true},
		{"manager fails AdminOnly", &models.User{Role: models.RoleManager}, AdminOnly, false},
		{"manager passes AdminOrManager", &models.User{Role: models.RoleManager}, AdminOrManager, true},
		{"student fails AdminOrManager", &models.User{Role: models.RoleStudent}, AdminOrManager, false},
		{"recruiter fails AdminOrManager", &models.User{Role: models.RoleRecruiter}, AdminOrManager, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Require(tt.actor, tt.policy)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			var denied *DeniedError
			assert.True(t, errors.As(err, &denied))
			assert.Contains(t, err.Error(), "access denied")
		})
	}
}
