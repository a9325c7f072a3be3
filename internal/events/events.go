package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	ApplicationSubmitted     EventType = "application.submitted"
	ApplicationStatusChanged EventType = "application.status_changed"
	OtpIssued                EventType = "otp.issued"
	LeadCreated              EventType = "lead.created"
)

// PortalEvent is the JSON envelope published to the event stream after a
// workflow commits. Publishing is best-effort: a failed publish never rolls
// back the write it describes.
type PortalEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}

// NewPortalEvent builds an envelope with a fresh id and current timestamp.
func NewPortalEvent(eventType EventType, payload map[string]interface{}) *PortalEvent {
	return &PortalEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "portal-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
