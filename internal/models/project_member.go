package models

import (
	"time"
)

const (
	RoleOwner  = "owner"
	RoleTester = "tester"
	RoleViewer = "viewer"
)

// ProjectMember is one entry of a project's member roster. The composite
// unique index makes a (project, user) pair insertable at most once, which
// backstops idempotent membership reconciliation under retries.
// Email and FullName are denormalized from User for display without joins.
type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	Email     string    `gorm:"size:255" json:"email"`
	FullName  string    `gorm:"size:200" json:"full_name"`
	Role      string    `gorm:"size:20;default:viewer" json:"role"` // owner, tester, viewer
	JoinedAt  time.Time `json:"joined_at"`
	AddedBy   uint      `json:"added_by"`
}

func (ProjectMember) TableName() string { return "project_members" }
