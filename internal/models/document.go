package models

import (
	"time"

	"gorm.io/gorm"
)

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentMissing  DocumentStatus = "MISSING"
	DocumentVerified DocumentStatus = "VERIFIED"
)

// RequiredDocuments are the four placeholder slots created for every new
// application, keyed by the documentUrls map the student submits.
var RequiredDocuments = []DocumentSlot{
	{Key: "passport", Name: "Passport Copy", ExpectedFile: "passport.pdf"},
	{Key: "transcripts", Name: "Academic Transcripts", ExpectedFile: "transcripts.pdf"},
	{Key: "ielts", Name: "IELTS Certificate", ExpectedFile: "ielts.pdf"},
	{Key: "sop", Name: "Statement of Purpose", ExpectedFile: "sop.pdf"},
}

type DocumentSlot struct {
	Key          string
	Name         string
	ExpectedFile string
}

type Document struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	UserID        string `json:"user_id" gorm:"not null;size:36;index"`
	ApplicationID *uint  `json:"application_id" gorm:"index"`

	Name         string `json:"name" gorm:"not null;size:100"`
	ExpectedFile string `json:"expected_file" gorm:"size:100"`

	// Empty string means no file has been uploaded for this slot yet.
	FileURL string `json:"file_url" gorm:"size:500;default:''"`

	Status           DocumentStatus `json:"status" gorm:"not null;default:PENDING" validate:"omitempty,document_status"`
	RequiresReupload bool           `json:"requires_reupload" gorm:"default:false"`
	Feedback         *string        `json:"feedback" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
