package services

import (
	"errors"
	"fmt"

	"github.com/orange-studies/portal-service/internal/authz"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Auth specific errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrEmailNotVerified   = errors.New("email address not verified")
	ErrRateLimited        = errors.New("too many registrations, please try again later")

	// OTP specific errors
	ErrInvalidOTP = errors.New("invalid verification code")
	ErrExpiredOTP = errors.New("verification code has expired")

	// Application specific errors
	ErrAlreadyApplied       = errors.New("an application for this program already exists")
	ErrInvalidStatus        = errors.New("invalid application status")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrProgramNotFound      = errors.New("program not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDocumentAccessDenied = errors.New("access denied to document")

	// Admin user specific errors
	ErrUserNotFound = errors.New("user not found")
	ErrSelfTarget   = errors.New("cannot perform this action on your own account")
	ErrInvalidRole  = errors.New("invalid user role")

	// Catalog specific errors
	ErrSlugTaken       = errors.New("an entry with this name already exists")
	ErrCountryNotFound = errors.New("country not found")

	// Lead specific errors
	ErrLeadNotFound = errors.New("lead not found")
)

// ===== CUSTOM ERROR TYPES =====

// UserHasApplicationsError blocks user deletion while applications exist; the
// count is surfaced to the admin in the message.
type UserHasApplicationsError struct {
	UserID string
	Count  int64
}

func (e *UserHasApplicationsError) Error() string {
	return fmt.Sprintf("user has %d application(s) and cannot be deleted", e.Count)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrApplicationNotFound) ||
		errors.Is(err, ErrProgramNotFound) ||
		errors.Is(err, ErrDocumentNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCountryNotFound) ||
		errors.Is(err, ErrLeadNotFound)
}

// IsForbidden checks if error represents an authorization failure
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrDocumentAccessDenied) {
		return true
	}
	var denied *authz.DeniedError
	return errors.As(err, &denied)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrInvalidOTP) ||
		errors.Is(err, ErrExpiredOTP)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	if errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrAlreadyApplied) ||
		errors.Is(err, ErrSlugTaken) {
		return true
	}
	var hasApps *UserHasApplicationsError
	return errors.As(err, &hasApps)
}

// IsRateLimited checks if error represents the registration throttle
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
