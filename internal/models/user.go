package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Email is always stored lowercase
// and is unique across the system.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	FirstName       string         `gorm:"size:100" json:"first_name"`
	LastName        string         `gorm:"size:100" json:"last_name"`
	FullName        string         `gorm:"size:200" json:"full_name"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PhoneNumber     string         `gorm:"size:50" json:"phone_number"`
	PasswordHash    string         `gorm:"size:255;not null" json:"-"`
	AvatarURL       string         `gorm:"size:500" json:"avatar_url"`
	IsEmailVerified bool           `gorm:"default:false" json:"is_email_verified"`
	LastLoginAt     *time.Time     `json:"last_login_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
