package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bugtrackpro/backend/internal/services"
	"github.com/bugtrackpro/backend/pkg/response"
)

type BugHandler struct {
	bugs    *services.BugService
	members *services.MembershipService
}

func NewBugHandler(bugs *services.BugService, members *services.MembershipService) *BugHandler {
	return &BugHandler{bugs: bugs, members: members}
}

// Create files a bug
// POST /api/projects/:id/bugs
func (h *BugHandler) Create(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireWriter(c, h.members, projectID); !ok {
		return
	}

	var req services.CreateBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bug, err := h.bugs.Create(projectID, &req, actor(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Created(c, bug)
}

// List returns the project's bugs
// GET /api/projects/:id/bugs
func (h *BugHandler) List(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireMember(c, h.members, projectID); !ok {
		return
	}

	var req services.BugListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.bugs.List(projectID, &req)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, resp)
}

// Get returns one bug with its status history
// GET /api/projects/:id/bugs/:bugId
func (h *BugHandler) Get(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	bugID, ok := parseUintParam(c, "bugId")
	if !ok {
		return
	}
	if _, ok := requireMember(c, h.members, projectID); !ok {
		return
	}

	bug, err := h.bugs.GetByID(projectID, bugID)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, bug)
}

// Update edits bug fields
// PUT /api/projects/:id/bugs/:bugId
func (h *BugHandler) Update(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	bugID, ok := parseUintParam(c, "bugId")
	if !ok {
		return
	}
	if _, ok := requireWriter(c, h.members, projectID); !ok {
		return
	}

	var req services.UpdateBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bug, err := h.bugs.Update(projectID, bugID, &req, actor(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, bug)
}

// ChangeStatus moves a bug through its workflow
// POST /api/projects/:id/bugs/:bugId/status
func (h *BugHandler) ChangeStatus(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	bugID, ok := parseUintParam(c, "bugId")
	if !ok {
		return
	}
	if _, ok := requireWriter(c, h.members, projectID); !ok {
		return
	}

	var req services.ChangeBugStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bug, err := h.bugs.ChangeStatus(projectID, bugID, &req, actor(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, bug)
}

// Delete soft-deletes a bug
// DELETE /api/projects/:id/bugs/:bugId
func (h *BugHandler) Delete(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	bugID, ok := parseUintParam(c, "bugId")
	if !ok {
		return
	}
	if _, ok := requireWriter(c, h.members, projectID); !ok {
		return
	}

	if err := h.bugs.Delete(projectID, bugID, actor(c)); err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "bug deleted"})
}
