package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bugtrackpro/backend/internal/models"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectService owns project CRUD. Creating a project also seeds the
// roster with the creator as owner, in one transaction so a project can
// never exist without its owner on the roster.
type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Name     string `form:"name"`
	Status   string `form:"status" binding:"omitempty,oneof=active archived completed"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

type CreateProjectRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type UpdateProjectRequest struct {
	Name        string   `json:"name" binding:"omitempty,max=200"`
	Description *string  `json:"description"`
	Status      string   `json:"status" binding:"omitempty,oneof=active archived completed"`
	Tags        []string `json:"tags"`
}

// Create creates a project and puts the creator on the roster as owner.
func (s *ProjectService) Create(req *CreateProjectRequest, owner *models.User) (*models.Project, error) {
	project := models.Project{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		OwnerID:     owner.ID,
		Status:      models.ProjectStatusActive,
		Tags:        strings.Join(req.Tags, ","),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    owner.ID,
			Email:     owner.Email,
			FullName:  owner.FullName,
			Role:      models.RoleOwner,
			JoinedAt:  time.Now(),
			AddedBy:   owner.ID,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// ListForUser returns the projects the user is a member of, paginated,
// newest first. Visibility is membership: no roster entry, no project.
func (s *ProjectService) ListForUser(userID uint, req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	query := s.db.Model(&models.Project{}).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID)

	if req.Name != "" {
		query = query.Where("projects.name LIKE ?", "%"+req.Name+"%")
	}
	if req.Status != "" {
		query = query.Where("projects.status = ?", req.Status)
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("projects.created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&projects).Error; err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

// GetByID returns a project with its roster preloaded.
func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := s.db.Preload("Members").First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Update applies the given changes. Caller is responsible for authorization.
func (s *ProjectService) Update(id uint, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		project.Name = strings.TrimSpace(req.Name)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != "" {
		project.Status = req.Status
	}
	if req.Tags != nil {
		project.Tags = strings.Join(req.Tags, ",")
	}

	if err := s.db.Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Archive flips a project to archived without deleting anything.
func (s *ProjectService) Archive(id uint) error {
	result := s.db.Model(&models.Project{}).
		Where("id = ?", id).
		Update("status", models.ProjectStatusArchived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Delete soft-deletes a project. Child records stay in place; reads are
// scoped by project membership so they become unreachable.
func (s *ProjectService) Delete(id uint) error {
	result := s.db.Delete(&models.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
