package services

import (
	"encoding/json"
	"time"

	"github.com/bugtrackpro/backend/internal/models"
	"github.com/bugtrackpro/backend/pkg/logger"
	"gorm.io/gorm"
)

// ActivityService appends entries to the per-project activity feed.
// Recording is best effort: a failed write is logged and never fails the
// mutation that triggered it.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record appends one immutable activity entry.
func (s *ActivityService) Record(projectID, actorID uint, actorName, action, entityType string, entityID *uint, entityTitle string, metadata map[string]string) {
	var metaStr string
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			metaStr = string(b)
		}
	}

	entry := models.ActivityLog{
		ProjectID:   projectID,
		ActorID:     actorID,
		ActorName:   actorName,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		EntityTitle: entityTitle,
		Metadata:    metaStr,
		CreatedAt:   time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		logger.Warn().Err(err).
			Uint("project_id", projectID).
			Str("action", action).
			Msg("failed to record activity")
	}
}

type ActivityListRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

type ActivityListResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Items    []models.ActivityLog `json:"items"`
}

// List returns a project's activity feed, newest first.
func (s *ActivityService) List(projectID uint, req *ActivityListRequest) (*ActivityListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	var total int64
	query := s.db.Model(&models.ActivityLog{}).Where("project_id = ?", projectID)
	query.Count(&total)

	var items []models.ActivityLog
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &ActivityListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}
