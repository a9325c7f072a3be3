package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/orange-studies/portal-service/internal/models"
)

// Validator wraps the go-playground validator with the portal's custom rules.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// Custom validation functions

func ValidateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, role := range models.ValidRoles {
		if string(role) == value {
			return true
		}
	}
	return false
}

func ValidateApplicationStatus(fl validator.FieldLevel) bool {
	return models.ApplicationStatus(fl.Field().String()).Valid()
}

func ValidateDocumentStatus(fl validator.FieldLevel) bool {
	switch models.DocumentStatus(fl.Field().String()) {
	case models.DocumentPending, models.DocumentMissing, models.DocumentVerified:
		return true
	}
	return false
}

func ValidateOtpPurpose(fl validator.FieldLevel) bool {
	switch models.OtpPurpose(fl.Field().String()) {
	case models.OtpVerify, models.OtpReset:
		return true
	}
	return false
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("user_role", ValidateUserRole)
	validate.RegisterValidation("application_status", ValidateApplicationStatus)
	validate.RegisterValidation("document_status", ValidateDocumentStatus)
	validate.RegisterValidation("otp_purpose", ValidateOtpPurpose)

	// Report field names from json tags for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
