package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/bugtrackpro/backend/internal/models"
)

var ErrTestCaseNotFound = errors.New("test case not found")

// TestCaseService owns test case definitions. Case numbers are allocated
// through the sequence generator the same way bug numbers are.
type TestCaseService struct {
	db       *gorm.DB
	seq      *SequenceService
	activity *ActivityService
}

func NewTestCaseService(db *gorm.DB, seq *SequenceService, activity *ActivityService) *TestCaseService {
	return &TestCaseService{db: db, seq: seq, activity: activity}
}

type TestCaseStepInput struct {
	Action          string `json:"action" binding:"required"`
	ExpectedOutcome string `json:"expected_outcome"`
}

type CreateTestCaseRequest struct {
	Title          string              `json:"title" binding:"required,max=300"`
	Description    string              `json:"description"`
	Preconditions  string              `json:"preconditions"`
	Steps          []TestCaseStepInput `json:"steps"`
	ExpectedResult string              `json:"expected_result"`
	Priority       string              `json:"priority" binding:"omitempty,oneof=high medium low"`
	AssignedTo     *uint               `json:"assigned_to"`
	Tags           []string            `json:"tags"`
}

type UpdateTestCaseRequest struct {
	Title          string              `json:"title" binding:"omitempty,max=300"`
	Description    *string             `json:"description"`
	Preconditions  *string             `json:"preconditions"`
	Steps          []TestCaseStepInput `json:"steps"`
	ExpectedResult *string             `json:"expected_result"`
	Priority       string              `json:"priority" binding:"omitempty,oneof=high medium low"`
	Status         string              `json:"status" binding:"omitempty,oneof=draft active deprecated"`
	AssignedTo     *uint               `json:"assigned_to"`
	Tags           []string            `json:"tags"`
}

type TestCaseListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Keyword  string `form:"keyword"`
}

type TestCaseListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []models.TestCase `json:"items"`
}

// Create adds a test case with its ordered steps. Steps are renumbered
// 1..N from the request order.
func (s *TestCaseService) Create(projectID uint, req *CreateTestCaseRequest, author *models.User) (*models.TestCase, error) {
	number, err := s.seq.Next(projectID, models.CounterKindTestCases)
	if err != nil {
		return nil, err
	}

	tc := models.TestCase{
		ProjectID:      projectID,
		CaseNumber:     number,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Preconditions:  req.Preconditions,
		ExpectedResult: req.ExpectedResult,
		Priority:       defaultString(req.Priority, models.TestCasePriorityMedium),
		Status:         models.TestCaseStatusDraft,
		CreatedBy:      author.ID,
		AssignedTo:     req.AssignedTo,
		Tags:           strings.Join(req.Tags, ","),
	}
	for i, step := range req.Steps {
		tc.Steps = append(tc.Steps, models.TestCaseStep{
			StepNumber:      i + 1,
			Action:          step.Action,
			ExpectedOutcome: step.ExpectedOutcome,
		})
	}

	if err := s.db.Create(&tc).Error; err != nil {
		return nil, err
	}

	s.activity.Record(projectID, author.ID, author.FullName,
		models.ActivityTestCaseCreated, models.ActivityEntityTestCase, &tc.ID, tc.Title,
		map[string]string{"case_number": fmt.Sprintf("%d", tc.CaseNumber)})

	return &tc, nil
}

// GetByID returns a test case with its steps, scoped to the project.
func (s *TestCaseService) GetByID(projectID, id uint) (*models.TestCase, error) {
	var tc models.TestCase
	err := s.db.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("step_number ASC")
	}).Where("project_id = ?", projectID).First(&tc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestCaseNotFound
		}
		return nil, err
	}
	return &tc, nil
}

// List returns a project's test cases, paginated, newest first.
func (s *TestCaseService) List(projectID uint, req *TestCaseListRequest) (*TestCaseListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.TestCase{}).Where("project_id = ?", projectID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Priority != "" {
		query = query.Where("priority = ?", req.Priority)
	}
	if req.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+req.Keyword+"%")
	}

	var total int64
	query.Count(&total)

	var cases []models.TestCase
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&cases).Error; err != nil {
		return nil, err
	}

	return &TestCaseListResponse{Total: total, Page: req.Page, PageSize: req.PageSize, Items: cases}, nil
}

// Update applies field changes. When steps are supplied they replace the
// existing set wholesale, renumbered from the request order.
func (s *TestCaseService) Update(projectID, id uint, req *UpdateTestCaseRequest, actor *models.User) (*models.TestCase, error) {
	tc, err := s.GetByID(projectID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		tc.Title = strings.TrimSpace(req.Title)
	}
	if req.Description != nil {
		tc.Description = *req.Description
	}
	if req.Preconditions != nil {
		tc.Preconditions = *req.Preconditions
	}
	if req.ExpectedResult != nil {
		tc.ExpectedResult = *req.ExpectedResult
	}
	if req.Priority != "" {
		tc.Priority = req.Priority
	}
	if req.Status != "" {
		tc.Status = req.Status
	}
	if req.AssignedTo != nil {
		tc.AssignedTo = req.AssignedTo
	}
	if req.Tags != nil {
		tc.Tags = strings.Join(req.Tags, ",")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.Steps != nil {
			if err := tx.Where("test_case_id = ?", tc.ID).Delete(&models.TestCaseStep{}).Error; err != nil {
				return err
			}
			tc.Steps = nil
			for i, step := range req.Steps {
				tc.Steps = append(tc.Steps, models.TestCaseStep{
					TestCaseID:      tc.ID,
					StepNumber:      i + 1,
					Action:          step.Action,
					ExpectedOutcome: step.ExpectedOutcome,
				})
			}
		}
		return tx.Save(tc).Error
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(projectID, actor.ID, actor.FullName,
		models.ActivityTestCaseUpdated, models.ActivityEntityTestCase, &tc.ID, tc.Title, nil)

	return s.GetByID(projectID, id)
}

// Delete soft-deletes a test case. Its runs stay as historical records.
func (s *TestCaseService) Delete(projectID, id uint, actor *models.User) error {
	tc, err := s.GetByID(projectID, id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(tc).Error; err != nil {
		return err
	}

	s.activity.Record(projectID, actor.ID, actor.FullName,
		models.ActivityTestCaseDeleted, models.ActivityEntityTestCase, &tc.ID, tc.Title, nil)

	return nil
}
