package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bugtrackpro/backend/internal/middleware"
	"github.com/bugtrackpro/backend/internal/models"
	"github.com/bugtrackpro/backend/internal/services"
	"github.com/bugtrackpro/backend/pkg/response"
)

type InvitationHandler struct {
	invites    *services.InvitationService
	projects   *services.ProjectService
	members    *services.MembershipService
	reconciler *services.Reconciler
	activity   *services.ActivityService
}

func NewInvitationHandler(invites *services.InvitationService, projects *services.ProjectService,
	members *services.MembershipService, reconciler *services.Reconciler, activity *services.ActivityService) *InvitationHandler {
	return &InvitationHandler{
		invites:    invites,
		projects:   projects,
		members:    members,
		reconciler: reconciler,
		activity:   activity,
	}
}

type createInvitationRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required,oneof=tester viewer"`
}

// Create issues an invitation, owner only
// POST /api/projects/:id/invitations
func (h *InvitationHandler) Create(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireOwner(c, h.members, projectID); !ok {
		return
	}

	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projects.GetByID(projectID)
	if err != nil {
		serviceError(c, err)
		return
	}

	user := actor(c)
	invite, err := h.invites.Create(projectID, project.Name, req.Email, user.ID, req.Role)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.activity.Record(projectID, user.ID, user.FullName,
		models.ActivityMemberInvited, models.ActivityEntityMember, nil, invite.InvitedEmail,
		map[string]string{"role": invite.Role})

	response.Created(c, invite)
}

// ListForProject returns all invitations issued for a project, owner only
// GET /api/projects/:id/invitations
func (h *InvitationHandler) ListForProject(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireOwner(c, h.members, projectID); !ok {
		return
	}

	invites, err := h.invites.ListForProject(projectID)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, invites)
}

// ListMine returns pending invitations addressed to the caller's email
// GET /api/invitations
func (h *InvitationHandler) ListMine(c *gin.Context) {
	invites, err := h.invites.FindPendingByEmail(middleware.GetEmail(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, invites)
}

type respondInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

// Accept redeems an invitation token for the caller
// POST /api/invitations/accept
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req respondInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.reconciler.AcceptByToken(req.Token, middleware.GetUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, result)
}

// Decline records a decline for an invitation token
// POST /api/invitations/decline
func (h *InvitationHandler) Decline(c *gin.Context) {
	var req respondInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.reconciler.DeclineByToken(req.Token); err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "invitation declined"})
}
