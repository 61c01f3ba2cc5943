package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bugtrackpro/backend/internal/models"
)

var (
	ErrTestRunNotFound  = errors.New("test run not found")
	ErrInvalidRunResult = errors.New("invalid test run result")
)

// TestRunService records executions of test cases. Runs are append-only:
// each execution is a new row, never an update of a previous one.
type TestRunService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewTestRunService(db *gorm.DB, activity *ActivityService) *TestRunService {
	return &TestRunService{db: db, activity: activity}
}

type StepResultInput struct {
	StepNumber    int    `json:"step_number" binding:"required,min=1"`
	Result        string `json:"result" binding:"required,oneof=passed failed blocked skipped"`
	ActualOutcome string `json:"actual_outcome"`
}

type LogTestRunRequest struct {
	Result      string            `json:"result" binding:"required"`
	Environment string            `json:"environment"`
	AppVersion  string            `json:"app_version"`
	Notes       string            `json:"notes"`
	StepResults []StepResultInput `json:"step_results"`
	BugID       *uint             `json:"bug_id"`
	Duration    *int              `json:"duration"`
}

type TestRunListRequest struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	TestCaseID uint   `form:"test_case_id"`
	Result     string `form:"result"`
}

type TestRunListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.TestRun `json:"items"`
}

var validRunResults = map[string]bool{
	models.TestRunPassed:  true,
	models.TestRunFailed:  true,
	models.TestRunBlocked: true,
	models.TestRunSkipped: true,
}

// Log records one execution of a test case.
func (s *TestRunService) Log(projectID, testCaseID uint, req *LogTestRunRequest, executor *models.User) (*models.TestRun, error) {
	if !validRunResults[req.Result] {
		return nil, ErrInvalidRunResult
	}

	var tc models.TestCase
	err := s.db.Where("project_id = ?", projectID).First(&tc, testCaseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestCaseNotFound
		}
		return nil, err
	}

	run := models.TestRun{
		ProjectID:   projectID,
		TestCaseID:  tc.ID,
		ExecutedBy:  executor.ID,
		Result:      req.Result,
		Environment: req.Environment,
		AppVersion:  req.AppVersion,
		Notes:       req.Notes,
		BugID:       req.BugID,
		Duration:    req.Duration,
		ExecutedAt:  time.Now(),
	}
	for _, sr := range req.StepResults {
		run.StepResults = append(run.StepResults, models.TestStepResult{
			StepNumber:    sr.StepNumber,
			Result:        sr.Result,
			ActualOutcome: sr.ActualOutcome,
		})
	}

	if err := s.db.Create(&run).Error; err != nil {
		return nil, err
	}

	s.activity.Record(projectID, executor.ID, executor.FullName,
		models.ActivityTestRunLogged, models.ActivityEntityTestRun, &run.ID, tc.Title,
		map[string]string{"result": run.Result})

	return &run, nil
}

// GetByID returns a run with its step results, scoped to the project.
func (s *TestRunService) GetByID(projectID, id uint) (*models.TestRun, error) {
	var run models.TestRun
	err := s.db.Preload("StepResults", func(db *gorm.DB) *gorm.DB {
		return db.Order("step_number ASC")
	}).Where("project_id = ?", projectID).First(&run, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

// List returns a project's runs, most recent execution first.
func (s *TestRunService) List(projectID uint, req *TestRunListRequest) (*TestRunListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.TestRun{}).Where("project_id = ?", projectID)
	if req.TestCaseID != 0 {
		query = query.Where("test_case_id = ?", req.TestCaseID)
	}
	if req.Result != "" {
		query = query.Where("result = ?", req.Result)
	}

	var total int64
	query.Count(&total)

	var runs []models.TestRun
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("executed_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&runs).Error; err != nil {
		return nil, err
	}

	return &TestRunListResponse{Total: total, Page: req.Page, PageSize: req.PageSize, Items: runs}, nil
}
