package models

import "time"

// SettingsID is the fixed key of the single portal settings row.
const SettingsID = "global"

// PortalSettings is a process-wide singleton addressed by SettingsID. It is
// loaded once per request path that needs it and passed in explicitly; no
// workflow fetches it ad hoc.
type PortalSettings struct {
	ID string `json:"id" gorm:"primaryKey;size:20"`

	SMTPHost     string `json:"smtp_host" gorm:"size:255"`
	SMTPPort     int    `json:"smtp_port" gorm:"default:587"`
	SMTPUser     string `json:"smtp_user" gorm:"size:255"`
	SMTPPassword string `json:"-" gorm:"size:255"`
	MailFrom     string `json:"mail_from" gorm:"size:255"`

	RequireEmailVerification bool `json:"require_email_verification" gorm:"default:false"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (PortalSettings) TableName() string {
	return "portal_settings"
}

// DefaultSettings returns the row created on first read when none exists.
func DefaultSettings() *PortalSettings {
	return &PortalSettings{
		ID:       SettingsID,
		SMTPPort: 587,
	}
}
