package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TestCasePriorityHigh   = "high"
	TestCasePriorityMedium = "medium"
	TestCasePriorityLow    = "low"

	TestCaseStatusDraft      = "draft"
	TestCaseStatusActive     = "active"
	TestCaseStatusDeprecated = "deprecated"
)

// TestCase describes what to test; TestRuns record each execution attempt.
// CaseNumber is sequential per project, allocated via the counters table.
type TestCase struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ProjectID      uint           `gorm:"uniqueIndex:idx_testcases_project_number;not null" json:"project_id"`
	CaseNumber     int            `gorm:"uniqueIndex:idx_testcases_project_number;not null" json:"case_number"`
	Title          string         `gorm:"size:300;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Preconditions  string         `gorm:"type:text" json:"preconditions"`
	Steps          []TestCaseStep `gorm:"foreignKey:TestCaseID" json:"steps,omitempty"`
	ExpectedResult string         `gorm:"type:text" json:"expected_result"`
	Priority       string         `gorm:"size:20;default:medium" json:"priority"`
	Status         string         `gorm:"size:20;default:draft" json:"status"` // draft, active, deprecated
	CreatedBy      uint           `gorm:"not null" json:"created_by"`
	AssignedTo     *uint          `json:"assigned_to"`
	Tags           string         `gorm:"size:1000" json:"tags"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TestCase) TableName() string { return "testcases" }

// TestCaseStep is one ordered step of a test case. StepNumber is 1-based.
type TestCaseStep struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	TestCaseID      uint   `gorm:"index;not null" json:"test_case_id"`
	StepNumber      int    `gorm:"not null" json:"step_number"`
	Action          string `gorm:"type:text" json:"action"`
	ExpectedOutcome string `gorm:"type:text" json:"expected_outcome"`
}

func (TestCaseStep) TableName() string { return "testcase_steps" }
