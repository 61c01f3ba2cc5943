package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bugtrackpro/backend/internal/models"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("only the author can modify a comment")
	ErrBadCommentParent = errors.New("parent comment does not belong to the same entity")
	ErrBadCommentEntity = errors.New("comment target not found")
)

// CommentService attaches comments to bugs and test cases. Threading is one
// level: a reply's parent must be a top-level comment on the same entity.
type CommentService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewCommentService(db *gorm.DB, activity *ActivityService) *CommentService {
	return &CommentService{db: db, activity: activity}
}

type CreateCommentRequest struct {
	EntityType      string `json:"entity_type" binding:"required,oneof=bug testcase"`
	EntityID        uint   `json:"entity_id" binding:"required"`
	ParentCommentID *uint  `json:"parent_comment_id"`
	Content         string `json:"content" binding:"required"`
}

// Create adds a comment after verifying the target entity exists in the
// project and, for replies, that the parent is a top-level comment on it.
func (s *CommentService) Create(projectID uint, req *CreateCommentRequest, author *models.User) (*models.Comment, error) {
	if err := s.checkEntity(projectID, req.EntityType, req.EntityID); err != nil {
		return nil, err
	}

	if req.ParentCommentID != nil {
		var parent models.Comment
		err := s.db.Where("project_id = ?", projectID).First(&parent, *req.ParentCommentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if parent.EntityType != req.EntityType || parent.EntityID != req.EntityID || parent.ParentCommentID != nil {
			return nil, ErrBadCommentParent
		}
	}

	comment := models.Comment{
		ProjectID:       projectID,
		EntityType:      req.EntityType,
		EntityID:        req.EntityID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
		AuthorID:        author.ID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	s.activity.Record(projectID, author.ID, author.FullName,
		models.ActivityCommentAdded, models.ActivityEntityComment, &comment.ID, "",
		map[string]string{"entity_type": req.EntityType})

	return &comment, nil
}

// ListForEntity returns an entity's comments oldest first, replies included.
func (s *CommentService) ListForEntity(projectID uint, entityType string, entityID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Where("project_id = ? AND entity_type = ? AND entity_id = ?",
		projectID, entityType, entityID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Update edits a comment's content. Author only; flips isEdited.
func (s *CommentService) Update(projectID, id uint, content string, actor *models.User) (*models.Comment, error) {
	comment, err := s.getByID(projectID, id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actor.ID {
		return nil, ErrNotCommentAuthor
	}

	comment.Content = content
	comment.IsEdited = true
	if err := s.db.Save(comment).Error; err != nil {
		return nil, err
	}

	s.activity.Record(projectID, actor.ID, actor.FullName,
		models.ActivityCommentEdited, models.ActivityEntityComment, &comment.ID, "", nil)

	return comment, nil
}

// Delete soft-deletes a comment. Author only.
func (s *CommentService) Delete(projectID, id uint, actor *models.User) error {
	comment, err := s.getByID(projectID, id)
	if err != nil {
		return err
	}
	if comment.AuthorID != actor.ID {
		return ErrNotCommentAuthor
	}

	if err := s.db.Delete(comment).Error; err != nil {
		return err
	}

	s.activity.Record(projectID, actor.ID, actor.FullName,
		models.ActivityCommentDeleted, models.ActivityEntityComment, &comment.ID, "", nil)

	return nil
}

func (s *CommentService) getByID(projectID, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.Where("project_id = ?", projectID).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) checkEntity(projectID uint, entityType string, entityID uint) error {
	var count int64
	var err error
	switch entityType {
	case models.CommentEntityBug:
		err = s.db.Model(&models.Bug{}).
			Where("id = ? AND project_id = ?", entityID, projectID).
			Count(&count).Error
	case models.CommentEntityTestCase:
		err = s.db.Model(&models.TestCase{}).
			Where("id = ? AND project_id = ?", entityID, projectID).
			Count(&count).Error
	default:
		return ErrBadCommentEntity
	}
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrBadCommentEntity
	}
	return nil
}
