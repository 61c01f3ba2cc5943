package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bugtrackpro/backend/internal/middleware"
	"github.com/bugtrackpro/backend/internal/models"
	"github.com/bugtrackpro/backend/internal/services"
	"github.com/bugtrackpro/backend/pkg/response"
)

// actor builds the acting user from the JWT claims already in the gin
// context. Denormalized names on created records come from here, not from
// an extra user lookup.
func actor(c *gin.Context) *models.User {
	return &models.User{
		ID:       middleware.GetUserID(c),
		Email:    middleware.GetEmail(c),
		FullName: middleware.GetFullName(c),
	}
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// requireMember loads the caller's roster entry for the project, writing a
// 403 when there is none. Membership is the visibility boundary: outsiders
// get the same answer for "no such project" and "not your project".
func requireMember(c *gin.Context, members *services.MembershipService, projectID uint) (*models.ProjectMember, bool) {
	member, err := members.GetMember(projectID, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			response.Forbidden(c, "you are not a member of this project")
		} else {
			response.Error(c, err)
		}
		return nil, false
	}
	return member, true
}

// requireWriter is requireMember plus a write check: viewers are read-only.
func requireWriter(c *gin.Context, members *services.MembershipService, projectID uint) (*models.ProjectMember, bool) {
	member, ok := requireMember(c, members, projectID)
	if !ok {
		return nil, false
	}
	if member.Role == models.RoleViewer {
		response.Forbidden(c, "viewers have read-only access")
		return nil, false
	}
	return member, true
}

// requireOwner restricts an operation to the project owner.
func requireOwner(c *gin.Context, members *services.MembershipService, projectID uint) (*models.ProjectMember, bool) {
	member, ok := requireMember(c, members, projectID)
	if !ok {
		return nil, false
	}
	if member.Role != models.RoleOwner {
		response.Forbidden(c, "only the project owner can do this")
		return nil, false
	}
	return member, true
}

// serviceError maps service sentinel errors onto the HTTP envelope.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrBugNotFound),
		errors.Is(err, services.ErrTestCaseNotFound),
		errors.Is(err, services.ErrTestRunNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTokenNotFound),
		errors.Is(err, services.ErrBadCommentEntity):
		response.Error(c, response.NewNotFound(err.Error()))
	case errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrInvitePending),
		errors.Is(err, services.ErrInviteNotPending),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrSameStatus):
		response.Error(c, response.NewConflict(err.Error()))
	case errors.Is(err, services.ErrInviteExpired):
		response.Error(c, response.NewGone(err.Error()))
	case errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrRoleNotInvitable),
		errors.Is(err, services.ErrInvalidBugStatus),
		errors.Is(err, services.ErrInvalidRunResult),
		errors.Is(err, services.ErrBadCommentParent):
		response.Error(c, response.NewBadRequest(err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(c, response.NewUnauthorized(err.Error()))
	case errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrNotCommentAuthor):
		response.Error(c, response.NewForbidden(err.Error()))
	default:
		response.Error(c, err)
	}
}
