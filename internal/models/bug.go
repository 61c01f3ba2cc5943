package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BugSeverityCritical = "critical"
	BugSeverityHigh     = "high"
	BugSeverityMedium   = "medium"
	BugSeverityLow      = "low"

	BugPriorityUrgent = "urgent"
	BugPriorityNormal = "normal"
	BugPriorityLow    = "low"

	BugStatusOpen       = "open"
	BugStatusInProgress = "in_progress"
	BugStatusResolved   = "resolved"
	BugStatusClosed     = "closed"
	BugStatusWontFix    = "wont_fix"
	BugStatusDuplicate  = "duplicate"
)

// Bug is a defect report filed within a project. BugNumber is sequential per
// project and comes from the counters table — never computed as max+1.
type Bug struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	ProjectID        uint              `gorm:"uniqueIndex:idx_bugs_project_number;index:idx_bugs_project_status;not null" json:"project_id"`
	BugNumber        int               `gorm:"uniqueIndex:idx_bugs_project_number;not null" json:"bug_number"`
	Title            string            `gorm:"size:300;not null" json:"title"`
	Description      string            `gorm:"type:text" json:"description"`
	StepsToReproduce string            `gorm:"type:text" json:"steps_to_reproduce"` // newline-separated
	ExpectedBehavior string            `gorm:"type:text" json:"expected_behavior"`
	ActualBehavior   string            `gorm:"type:text" json:"actual_behavior"`
	Severity         string            `gorm:"size:20;default:medium" json:"severity"`
	Priority         string            `gorm:"size:20;default:normal" json:"priority"`
	Status           string            `gorm:"index:idx_bugs_project_status;size:20;default:open" json:"status"`
	Environment      string            `gorm:"size:300" json:"environment"` // e.g. "iOS 17.2 / iPhone 14 / Safari 17"
	Version          string            `gorm:"size:100" json:"version"`
	ReportedBy       uint              `gorm:"not null" json:"reported_by"`
	AssignedTo       string            `gorm:"size:500" json:"assigned_to"` // comma-separated user ids
	Tags             string            `gorm:"size:1000" json:"tags"`
	LinkedTestCaseID *uint             `json:"linked_test_case_id"`
	DuplicateOf      *uint             `json:"duplicate_of"`
	StatusHistory    []BugStatusChange `gorm:"foreignKey:BugID" json:"status_history,omitempty"`
	ResolvedAt       *time.Time        `json:"resolved_at"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	DeletedAt        gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (Bug) TableName() string { return "bugs" }

// BugStatusChange is one entry of a bug's status audit trail. Append-only.
type BugStatusChange struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BugID      uint      `gorm:"index;not null" json:"bug_id"`
	FromStatus string    `gorm:"size:20" json:"from_status"`
	ToStatus   string    `gorm:"size:20" json:"to_status"`
	ChangedBy  uint      `json:"changed_by"`
	Comment    string    `gorm:"size:500" json:"comment"`
	ChangedAt  time.Time `json:"changed_at"`
}

func (BugStatusChange) TableName() string { return "bug_status_changes" }
