package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bugtrackpro/backend/internal/models"
	"github.com/bugtrackpro/backend/internal/services"
	"github.com/bugtrackpro/backend/pkg/response"
)

type ProjectHandler struct {
	projects *services.ProjectService
	members  *services.MembershipService
	activity *services.ActivityService
}

func NewProjectHandler(projects *services.ProjectService, members *services.MembershipService, activity *services.ActivityService) *ProjectHandler {
	return &ProjectHandler{projects: projects, members: members, activity: activity}
}

// Create creates a project owned by the caller
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user := actor(c)
	project, err := h.projects.Create(&req, user)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.activity.Record(project.ID, user.ID, user.FullName,
		models.ActivityProjectCreated, models.ActivityEntityProject, &project.ID, project.Name, nil)

	response.Created(c, project)
}

// List returns the caller's projects
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.projects.ListForUser(actor(c).ID, &req)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, resp)
}

// Get returns one project with its roster
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireMember(c, h.members, projectID); !ok {
		return
	}

	project, err := h.projects.GetByID(projectID)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, project)
}

// Update changes project fields, owner only
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireOwner(c, h.members, projectID); !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projects.Update(projectID, &req)
	if err != nil {
		serviceError(c, err)
		return
	}

	user := actor(c)
	h.activity.Record(projectID, user.ID, user.FullName,
		models.ActivityProjectUpdated, models.ActivityEntityProject, &project.ID, project.Name, nil)

	response.Success(c, project)
}

// Archive flips a project to archived, owner only
// POST /api/projects/:id/archive
func (h *ProjectHandler) Archive(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireOwner(c, h.members, projectID); !ok {
		return
	}

	if err := h.projects.Archive(projectID); err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "project archived"})
}

// Delete soft-deletes a project, owner only
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireOwner(c, h.members, projectID); !ok {
		return
	}

	if err := h.projects.Delete(projectID); err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "project deleted"})
}

// Activity returns the project's activity feed
// GET /api/projects/:id/activity
func (h *ProjectHandler) Activity(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireMember(c, h.members, projectID); !ok {
		return
	}

	var req services.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.activity.List(projectID, &req)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, resp)
}
