package models

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	StatusSubmitted      ApplicationStatus = "SUBMITTED"
	StatusUnderReview    ApplicationStatus = "UNDER_REVIEW"
	StatusOfferReceived  ApplicationStatus = "OFFER_RECEIVED"
	StatusOfferAccepted  ApplicationStatus = "OFFER_ACCEPTED"
	StatusVisaProcessing ApplicationStatus = "VISA_PROCESSING"
	StatusEnrolled       ApplicationStatus = "ENROLLED"
	StatusRejected       ApplicationStatus = "REJECTED"
)

// ValidStatuses is the allow-list checked by status updates. The happy path
// runs SUBMITTED through ENROLLED in order; REJECTED is reachable from any
// state. Adjacency is not enforced.
var ValidStatuses = []ApplicationStatus{
	StatusSubmitted,
	StatusUnderReview,
	StatusOfferReceived,
	StatusOfferAccepted,
	StatusVisaProcessing,
	StatusEnrolled,
	StatusRejected,
}

// StatusProgress maps each status to the percentage shown on the student
// dashboard. Progress is always derived from status, never set directly.
var StatusProgress = map[ApplicationStatus]int{
	StatusSubmitted:      15,
	StatusUnderReview:    30,
	StatusOfferReceived:  55,
	StatusOfferAccepted:  70,
	StatusVisaProcessing: 85,
	StatusEnrolled:       100,
	StatusRejected:       0,
}

// StatusStage maps a status to the 1-based funnel step that becomes active
// when the status is set; everything before it is marked done. ENROLLED maps
// past the last step so all six read as done. REJECTED does not move the
// funnel.
var StatusStage = map[ApplicationStatus]int{
	StatusSubmitted:      2,
	StatusUnderReview:    3,
	StatusOfferReceived:  4,
	StatusOfferAccepted:  5,
	StatusVisaProcessing: 5,
	StatusEnrolled:       7,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Application struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	UserID    string `json:"user_id" gorm:"not null;size:36;index;uniqueIndex:idx_user_program"`
	ProgramID uint   `json:"program_id" gorm:"not null;uniqueIndex:idx_user_program"`

	// Human-readable identifier of the form OS-<year>-<6 hex>, distinct from
	// the row id.
	RefCode string `json:"ref_code" gorm:"uniqueIndex;not null;size:20"`

	Status   ApplicationStatus `json:"status" gorm:"not null;default:SUBMITTED;index" validate:"omitempty,application_status"`
	Progress int               `json:"progress" gorm:"not null;default:15"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User      User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Program   Program         `json:"program,omitempty" gorm:"foreignKey:ProgramID"`
	Timeline  []TimelineEntry `json:"timeline,omitempty" gorm:"foreignKey:ApplicationID"`
	Documents []Document      `json:"documents,omitempty" gorm:"foreignKey:ApplicationID"`
}

func (Application) TableName() string {
	return "applications"
}

// TimelineEntry is one step of the fixed six-stage funnel shown to students.
type TimelineEntry struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	ApplicationID uint   `json:"application_id" gorm:"not null;index"`
	Step          string `json:"step" gorm:"not null;size:100"`
	DateLabel     string `json:"date_label" gorm:"size:50"`
	Done          bool   `json:"done" gorm:"default:false"`
	Active        bool   `json:"active" gorm:"default:false"`
	SortOrder     int    `json:"sort_order" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TimelineEntry) TableName() string {
	return "timeline_entries"
}

// TimelineSteps are the fixed labels created at submission, in funnel order.
var TimelineSteps = []string{
	"Submitted",
	"Document Verification",
	"University Review",
	"Offer Letter",
	"Visa Processing",
	"Enrolled",
}
