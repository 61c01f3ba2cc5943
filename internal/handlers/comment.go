package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bugtrackpro/backend/internal/services"
	"github.com/bugtrackpro/backend/pkg/response"
)

type CommentHandler struct {
	comments *services.CommentService
	members  *services.MembershipService
}

func NewCommentHandler(comments *services.CommentService, members *services.MembershipService) *CommentHandler {
	return &CommentHandler{comments: comments, members: members}
}

// Create adds a comment to a bug or test case
// POST /api/projects/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireWriter(c, h.members, projectID); !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.comments.Create(projectID, &req, actor(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Created(c, comment)
}

// List returns an entity's comments
// GET /api/projects/:id/comments?entity_type=bug&entity_id=3
func (h *CommentHandler) List(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireMember(c, h.members, projectID); !ok {
		return
	}

	var req struct {
		EntityType string `form:"entity_type" binding:"required,oneof=bug testcase"`
		EntityID   uint   `form:"entity_id" binding:"required"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comments, err := h.comments.ListForEntity(projectID, req.EntityType, req.EntityID)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, comments)
}

type updateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Update edits a comment, author only
// PUT /api/projects/:id/comments/:commentId
func (h *CommentHandler) Update(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseUintParam(c, "commentId")
	if !ok {
		return
	}
	if _, ok := requireWriter(c, h.members, projectID); !ok {
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.comments.Update(projectID, commentID, req.Content, actor(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, comment)
}

// Delete removes a comment, author only
// DELETE /api/projects/:id/comments/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseUintParam(c, "commentId")
	if !ok {
		return
	}
	if _, ok := requireWriter(c, h.members, projectID); !ok {
		return
	}

	if err := h.comments.Delete(projectID, commentID, actor(c)); err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "comment deleted"})
}
