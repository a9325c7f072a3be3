package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent   UserRole = "STUDENT"
	RoleAdmin     UserRole = "ADMIN"
	RoleManager   UserRole = "MANAGER"
	RoleRecruiter UserRole = "RECRUITER"
)

// ValidRoles lists every role the portal knows about. Guards match against
// this set so adding a role forces every guard site to be revisited.
var ValidRoles = []UserRole{RoleStudent, RoleAdmin, RoleManager, RoleRecruiter}

func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager
}

type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:36"`
	FullName     string   `json:"full_name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;default:STUDENT;index" validate:"omitempty,user_role"`

	// Optional profile fields
	Phone       *string `json:"phone" gorm:"size:30"`
	Nationality *string `json:"nationality" gorm:"size:100"`
	City        *string `json:"city" gorm:"size:100"`
	AvatarURL   *string `json:"avatar_url" gorm:"size:500"`

	// Nil means the address has not been verified yet.
	EmailVerifiedAt *time.Time `json:"email_verified_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:UserID"`
	Documents    []Document    `json:"documents,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}
