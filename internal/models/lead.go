package models

import "time"

// Lead is a public contact-form enquiry, handled later by staff.
type Lead struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Email   string `json:"email" gorm:"not null;size:255;index" validate:"required,email"`
	Phone   string `json:"phone" gorm:"size:30"`
	Message string `json:"message" gorm:"type:text"`
	Source  string `json:"source" gorm:"size:50"`
	Handled bool   `json:"handled" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}
