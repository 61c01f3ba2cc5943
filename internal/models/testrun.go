package models

import (
	"time"
)

const (
	TestRunPassed  = "passed"
	TestRunFailed  = "failed"
	TestRunBlocked = "blocked"
	TestRunSkipped = "skipped"
)

// TestRun records a single execution of a TestCase. Each run is its own row,
// giving a full execution history over time.
type TestRun struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	ProjectID   uint             `gorm:"index:idx_testruns_project_executed;not null" json:"project_id"`
	TestCaseID  uint             `gorm:"index;not null" json:"test_case_id"`
	ExecutedBy  uint             `gorm:"not null" json:"executed_by"`
	Result      string           `gorm:"size:20;not null" json:"result"` // passed, failed, blocked, skipped
	Environment string           `gorm:"size:300" json:"environment"`
	AppVersion  string           `gorm:"size:100" json:"app_version"`
	Notes       string           `gorm:"type:text" json:"notes"`
	StepResults []TestStepResult `gorm:"foreignKey:TestRunID" json:"step_results,omitempty"`
	BugID       *uint            `json:"bug_id"` // bug filed from a failed run
	Duration    *int             `json:"duration"`
	ExecutedAt  time.Time        `gorm:"index:idx_testruns_project_executed,sort:desc" json:"executed_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (TestRun) TableName() string { return "test_runs" }

// TestStepResult is an optional per-step outcome of a run. StepNumber matches
// the test case's step numbering.
type TestStepResult struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TestRunID     uint   `gorm:"index;not null" json:"test_run_id"`
	StepNumber    int    `gorm:"not null" json:"step_number"`
	Result        string `gorm:"size:20;not null" json:"result"`
	ActualOutcome string `gorm:"type:text" json:"actual_outcome"`
}

func (TestStepResult) TableName() string { return "test_step_results" }
