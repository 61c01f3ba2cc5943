package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CommentEntityBug      = "bug"
	CommentEntityTestCase = "testcase"
)

// Comment is attached to a bug or a test case; EntityType tells which table
// EntityID points to. Threading is one level deep via ParentCommentID.
type Comment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ProjectID       uint           `gorm:"index;not null" json:"project_id"`
	EntityType      string         `gorm:"index:idx_comments_entity;size:20;not null" json:"entity_type"`
	EntityID        uint           `gorm:"index:idx_comments_entity;not null" json:"entity_id"`
	ParentCommentID *uint          `json:"parent_comment_id"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	AuthorID        uint           `gorm:"not null" json:"author_id"`
	IsEdited        bool           `gorm:"default:false" json:"is_edited"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Comment) TableName() string { return "comments" }
