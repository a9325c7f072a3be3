package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Catalog entities are identified by URL slugs on the public site and owned
// exclusively by admin CRUD actions.

type Country struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;uniqueIndex;size:100" validate:"required,min=1,max=100"`
	Slug string `json:"slug" gorm:"uniqueIndex;not null;size:120"`

	FlagURL     string         `json:"flag_url" gorm:"size:500"`
	Description string         `json:"description" gorm:"type:text"`
	Highlights  datatypes.JSON `json:"highlights"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Universities []University `json:"universities,omitempty" gorm:"foreignKey:CountryID"`
}

func (Country) TableName() string {
	return "countries"
}

type University struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CountryID uint   `json:"country_id" gorm:"not null;index"`
	Name      string `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Slug      string `json:"slug" gorm:"uniqueIndex;not null;size:220"`

	City        string         `json:"city" gorm:"size:100"`
	LogoURL     string         `json:"logo_url" gorm:"size:500"`
	CoverURL    string         `json:"cover_url" gorm:"size:500"`
	Ranking     *int           `json:"ranking"`
	Description string         `json:"description" gorm:"type:text"`
	Facts       datatypes.JSON `json:"facts"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Country  Country   `json:"country,omitempty" gorm:"foreignKey:CountryID"`
	Programs []Program `json:"programs,omitempty" gorm:"foreignKey:UniversityID"`
}

func (University) TableName() string {
	return "universities"
}

type Program struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	UniversityID uint   `json:"university_id" gorm:"not null;index"`
	Title        string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Slug         string `json:"slug" gorm:"uniqueIndex;not null;size:220"`

	Degree       string         `json:"degree" gorm:"size:50"`
	DurationText string         `json:"duration_text" gorm:"size:50"`
	TuitionFee   float64        `json:"tuition_fee"`
	Currency     string         `json:"currency" gorm:"size:3;default:USD"`
	Intake       string         `json:"intake" gorm:"size:50;default:September"`
	Description  string         `json:"description" gorm:"type:text"`
	Requirements datatypes.JSON `json:"requirements"`
	Modules      datatypes.JSON `json:"modules"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	University University `json:"university,omitempty" gorm:"foreignKey:UniversityID"`
}

func (Program) TableName() string {
	return "programs"
}
