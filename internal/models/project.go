package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProjectStatusActive    = "active"
	ProjectStatusArchived  = "archived"
	ProjectStatusCompleted = "completed"
)

// Project is a tenant-scoped workspace containing bugs, test cases and a
// member roster. The owner always appears in project_members with role owner;
// OwnerID is denormalized for fast ownership queries.
type Project struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	OwnerID     uint            `gorm:"index;not null" json:"owner_id"`
	Status      string          `gorm:"size:20;default:active" json:"status"` // active, archived, completed
	Tags        string          `gorm:"size:1000" json:"tags"`                // comma-separated
	Members     []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
