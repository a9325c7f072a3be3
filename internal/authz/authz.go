package authz

import (
	"fmt"

	"github.com/orange-studies/portal-service/internal/models"
)

// DeniedError reports why an actor failed an authorization check. Handlers
// map it to 403 with the reason in the response body.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

// Policy decides whether a role may perform a class of operations.
type Policy func(role models.UserRole) *DeniedError

// AdminOnly permits ADMIN alone. Used for destructive operations: deleting
// users, changing roles, editing portal settings.
func AdminOnly(role models.UserRole) *DeniedError {
	if role != models.RoleAdmin {
		return &DeniedError{Reason: "requires ADMIN role"}
	}
	return nil
}

// AdminOrManager permits the day-to-day back-office roles.
func AdminOrManager(role models.UserRole) *DeniedError {
	if !role.IsStaff() {
		return &DeniedError{Reason: "requires ADMIN or MANAGER role"}
	}
	return nil
}

// Require evaluates a policy for an actor and returns a typed denial rather
// than a bare nil user, so callers cannot silently skip the check.
func Require(actor *models.User, policy Policy) error {
	if actor == nil {
		return &DeniedError{Reason: "no authenticated user"}
	}
	if denied := policy(actor.Role); denied != nil {
		return denied
	}
	return nil
}
