package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditStatusChanged     AuditAction = "status_changed"
	AuditReuploadRequested AuditAction = "reupload_requested"
	AuditDocumentDeleted   AuditAction = "document_deleted"
	AuditDocumentVerified  AuditAction = "document_verified"
)

// AuditLog records an action taken against an application. Rows are append
// only: never updated, never deleted.
type AuditLog struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	ApplicationID uint `json:"application_id" gorm:"not null;index"`

	ActorEmail string      `json:"actor_email" gorm:"not null;size:255"`
	Action     AuditAction `json:"action" gorm:"not null;size:50;index"`
	Details    string      `json:"details" gorm:"type:text"`

	// Before/after values where the action changed state.
	Changes datatypes.JSON `json:"changes"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Application Application `json:"-" gorm:"foreignKey:ApplicationID"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
