package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bugtrackpro/backend/internal/models"
	"github.com/bugtrackpro/backend/internal/services"
	"github.com/bugtrackpro/backend/pkg/response"
)

type MemberHandler struct {
	members  *services.MembershipService
	activity *services.ActivityService
}

func NewMemberHandler(members *services.MembershipService, activity *services.ActivityService) *MemberHandler {
	return &MemberHandler{members: members, activity: activity}
}

// List returns the project roster
// GET /api/projects/:id/members
func (h *MemberHandler) List(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireMember(c, h.members, projectID); !ok {
		return
	}

	members, err := h.members.ListMembers(projectID)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, members)
}

// Remove drops a member from the roster, owner only
// DELETE /api/projects/:id/members/:userId
func (h *MemberHandler) Remove(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}
	if _, ok := requireOwner(c, h.members, projectID); !ok {
		return
	}

	removed, err := h.members.GetMember(projectID, userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	if err := h.members.RemoveMember(projectID, userID); err != nil {
		serviceError(c, err)
		return
	}

	user := actor(c)
	h.activity.Record(projectID, user.ID, user.FullName,
		models.ActivityMemberRemoved, models.ActivityEntityMember, &userID, removed.FullName, nil)

	response.Success(c, gin.H{"message": "member removed"})
}
