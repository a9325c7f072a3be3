package models

import "time"

type OtpPurpose string

const (
	OtpVerify OtpPurpose = "VERIFY"
	OtpReset  OtpPurpose = "RESET"
)

// OtpCode is a short-lived credential proving control of an email address.
// Generating a new code for the same (email, purpose) deletes prior codes, so
// at most one live code exists per pair. Codes are removed on first
// successful verification and on expired verification attempts.
type OtpCode struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Email     string     `json:"email" gorm:"not null;size:255;index:idx_otp_email_purpose"`
	Code      string     `json:"-" gorm:"not null;size:6"`
	Purpose   OtpPurpose `json:"purpose" gorm:"not null;size:10;index:idx_otp_email_purpose" validate:"omitempty,otp_purpose"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time  `json:"created_at"`
}

func (OtpCode) TableName() string {
	return "otp_codes"
}
