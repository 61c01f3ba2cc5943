package services

import (
	"errors"
	"time"

	"github.com/bugtrackpro/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAlreadyMember     = errors.New("user is already a member of this project")
	ErrMemberNotFound    = errors.New("user is not a member of this project")
	ErrCannotRemoveOwner = errors.New("the project owner cannot be removed")
)

// MembershipService mutates the member roster embedded in a project. It is
// the only write path for project_members.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// AddMember adds a user to a project's roster. It is idempotent: adding a
// user who is already on the roster reports ErrAlreadyMember and changes
// nothing, so retried or racing reconciliation attempts cannot produce
// duplicate entries. The composite unique index on (project_id, user_id)
// backstops the check for two inserts racing past it.
func (s *MembershipService) AddMember(projectID, userID uint, email, fullName, role string, addedBy uint) (*models.ProjectMember, error) {
	var count int64
	if err := s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyMember
	}

	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Email:     email,
		FullName:  fullName,
		Role:      role,
		JoinedAt:  time.Now(),
		AddedBy:   addedBy,
	}
	if err := s.db.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	s.touchProject(projectID)
	return &member, nil
}

// RemoveMember drops a user from the roster. The owner is not removable.
func (s *MembershipService) RemoveMember(projectID, userID uint) error {
	member, err := s.GetMember(projectID, userID)
	if err != nil {
		return err
	}
	if member.Role == models.RoleOwner {
		return ErrCannotRemoveOwner
	}

	if err := s.db.Delete(&models.ProjectMember{}, member.ID).Error; err != nil {
		return err
	}

	s.touchProject(projectID)
	return nil
}

// GetMember returns the roster entry for a user, or ErrMemberNotFound.
func (s *MembershipService) GetMember(projectID, userID uint) (*models.ProjectMember, error) {
	var member models.ProjectMember
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// ListMembers returns a project's roster in join order.
func (s *MembershipService) ListMembers(projectID uint) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	err := s.db.Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (s *MembershipService) touchProject(projectID uint) {
	s.db.Model(&models.Project{}).
		Where("id = ?", projectID).
		UpdateColumn("updated_at", time.Now())
}
