package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bugtrackpro/backend/internal/models"
)

var (
	ErrBugNotFound      = errors.New("bug not found")
	ErrSameStatus       = errors.New("bug is already in that status")
	ErrInvalidBugStatus = errors.New("invalid bug status")
)

// BugService owns defect reports. Bug numbers come from the sequence
// generator before the insert; a failed insert after allocation wastes the
// number but can never duplicate one.
type BugService struct {
	db       *gorm.DB
	seq      *SequenceService
	activity *ActivityService
}

func NewBugService(db *gorm.DB, seq *SequenceService, activity *ActivityService) *BugService {
	return &BugService{db: db, seq: seq, activity: activity}
}

type CreateBugRequest struct {
	Title            string   `json:"title" binding:"required,max=300"`
	Description      string   `json:"description"`
	StepsToReproduce []string `json:"steps_to_reproduce"`
	ExpectedBehavior string   `json:"expected_behavior"`
	ActualBehavior   string   `json:"actual_behavior"`
	Severity         string   `json:"severity" binding:"omitempty,oneof=critical high medium low"`
	Priority         string   `json:"priority" binding:"omitempty,oneof=urgent normal low"`
	Environment      string   `json:"environment"`
	Version          string   `json:"version"`
	AssignedTo       []uint   `json:"assigned_to"`
	Tags             []string `json:"tags"`
	LinkedTestCaseID *uint    `json:"linked_test_case_id"`
}

type UpdateBugRequest struct {
	Title            string   `json:"title" binding:"omitempty,max=300"`
	Description      *string  `json:"description"`
	StepsToReproduce []string `json:"steps_to_reproduce"`
	ExpectedBehavior *string  `json:"expected_behavior"`
	ActualBehavior   *string  `json:"actual_behavior"`
	Severity         string   `json:"severity" binding:"omitempty,oneof=critical high medium low"`
	Priority         string   `json:"priority" binding:"omitempty,oneof=urgent normal low"`
	Environment      *string  `json:"environment"`
	Version          *string  `json:"version"`
	AssignedTo       []uint   `json:"assigned_to"`
	Tags             []string `json:"tags"`
}

type BugListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status"`
	Severity string `form:"severity"`
	Keyword  string `form:"keyword"`
}

type BugListResponse struct {
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Items    []models.Bug `json:"items"`
}

// Create files a bug. The per-project number is allocated first; if the
// allocation fails the bug is not persisted.
func (s *BugService) Create(projectID uint, req *CreateBugRequest, reporter *models.User) (*models.Bug, error) {
	number, err := s.seq.Next(projectID, models.CounterKindBugs)
	if err != nil {
		return nil, err
	}

	bug := models.Bug{
		ProjectID:        projectID,
		BugNumber:        number,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		StepsToReproduce: strings.Join(req.StepsToReproduce, "\n"),
		ExpectedBehavior: req.ExpectedBehavior,
		ActualBehavior:   req.ActualBehavior,
		Severity:         defaultString(req.Severity, models.BugSeverityMedium),
		Priority:         defaultString(req.Priority, models.BugPriorityNormal),
		Status:           models.BugStatusOpen,
		Environment:      req.Environment,
		Version:          req.Version,
		ReportedBy:       reporter.ID,
		AssignedTo:       joinIDs(req.AssignedTo),
		Tags:             strings.Join(req.Tags, ","),
		LinkedTestCaseID: req.LinkedTestCaseID,
	}
	if err := s.db.Create(&bug).Error; err != nil {
		return nil, err
	}

	s.activity.Record(projectID, reporter.ID, reporter.FullName,
		models.ActivityBugCreated, models.ActivityEntityBug, &bug.ID, bug.Title,
		map[string]string{"bug_number": fmt.Sprintf("%d", bug.BugNumber), "severity": bug.Severity})

	return &bug, nil
}

// GetByID returns a bug with its status history, scoped to the project.
func (s *BugService) GetByID(projectID, id uint) (*models.Bug, error) {
	var bug models.Bug
	err := s.db.Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("changed_at ASC")
	}).Where("project_id = ?", projectID).First(&bug, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBugNotFound
		}
		return nil, err
	}
	return &bug, nil
}

// List returns a project's bugs, paginated, newest first.
func (s *BugService) List(projectID uint, req *BugListRequest) (*BugListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Bug{}).Where("project_id = ?", projectID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Severity != "" {
		query = query.Where("severity = ?", req.Severity)
	}
	if req.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+req.Keyword+"%")
	}

	var total int64
	query.Count(&total)

	var bugs []models.Bug
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&bugs).Error; err != nil {
		return nil, err
	}

	return &BugListResponse{Total: total, Page: req.Page, PageSize: req.PageSize, Items: bugs}, nil
}

// Update applies field changes without touching the status.
func (s *BugService) Update(projectID, id uint, req *UpdateBugRequest, actor *models.User) (*models.Bug, error) {
	bug, err := s.GetByID(projectID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		bug.Title = strings.TrimSpace(req.Title)
	}
	if req.Description != nil {
		bug.Description = *req.Description
	}
	if req.StepsToReproduce != nil {
		bug.StepsToReproduce = strings.Join(req.StepsToReproduce, "\n")
	}
	if req.ExpectedBehavior != nil {
		bug.ExpectedBehavior = *req.ExpectedBehavior
	}
	if req.ActualBehavior != nil {
		bug.ActualBehavior = *req.ActualBehavior
	}
	if req.Severity != "" {
		bug.Severity = req.Severity
	}
	if req.Priority != "" {
		bug.Priority = req.Priority
	}
	if req.Environment != nil {
		bug.Environment = *req.Environment
	}
	if req.Version != nil {
		bug.Version = *req.Version
	}
	if req.AssignedTo != nil {
		bug.AssignedTo = joinIDs(req.AssignedTo)
	}
	if req.Tags != nil {
		bug.Tags = strings.Join(req.Tags, ",")
	}

	if err := s.db.Save(bug).Error; err != nil {
		return nil, err
	}

	s.activity.Record(projectID, actor.ID, actor.FullName,
		models.ActivityBugUpdated, models.ActivityEntityBug, &bug.ID, bug.Title, nil)

	return bug, nil
}

type ChangeBugStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	Comment     string `json:"comment" binding:"max=500"`
	DuplicateOf *uint  `json:"duplicate_of"`
}

var validBugStatuses = map[string]bool{
	models.BugStatusOpen:       true,
	models.BugStatusInProgress: true,
	models.BugStatusResolved:   true,
	models.BugStatusClosed:     true,
	models.BugStatusWontFix:    true,
	models.BugStatusDuplicate:  true,
}

// ChangeStatus moves a bug to a new status and appends the transition to the
// status history. Resolving stamps resolvedAt; reopening clears it.
func (s *BugService) ChangeStatus(projectID, id uint, req *ChangeBugStatusRequest, actor *models.User) (*models.Bug, error) {
	if !validBugStatuses[req.Status] {
		return nil, ErrInvalidBugStatus
	}

	bug, err := s.GetByID(projectID, id)
	if err != nil {
		return nil, err
	}
	if bug.Status == req.Status {
		return nil, ErrSameStatus
	}

	from := bug.Status
	now := time.Now()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": req.Status}
		switch req.Status {
		case models.BugStatusResolved:
			updates["resolved_at"] = now
		case models.BugStatusOpen, models.BugStatusInProgress:
			updates["resolved_at"] = nil
		case models.BugStatusDuplicate:
			if req.DuplicateOf != nil {
				updates["duplicate_of"] = *req.DuplicateOf
			}
		}
		if err := tx.Model(bug).Updates(updates).Error; err != nil {
			return err
		}

		change := models.BugStatusChange{
			BugID:      bug.ID,
			FromStatus: from,
			ToStatus:   req.Status,
			ChangedBy:  actor.ID,
			Comment:    req.Comment,
			ChangedAt:  now,
		}
		return tx.Create(&change).Error
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(projectID, actor.ID, actor.FullName,
		models.ActivityBugStatusChanged, models.ActivityEntityBug, &bug.ID, bug.Title,
		map[string]string{"from": from, "to": req.Status})

	return s.GetByID(projectID, id)
}

// Delete soft-deletes a bug.
func (s *BugService) Delete(projectID, id uint, actor *models.User) error {
	bug, err := s.GetByID(projectID, id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(bug).Error; err != nil {
		return err
	}

	s.activity.Record(projectID, actor.ID, actor.FullName,
		models.ActivityBugDeleted, models.ActivityEntityBug, &bug.ID, bug.Title, nil)

	return nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func joinIDs(ids []uint) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}
