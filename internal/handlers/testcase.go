package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bugtrackpro/backend/internal/services"
	"github.com/bugtrackpro/backend/pkg/response"
)

type TestCaseHandler struct {
	cases   *services.TestCaseService
	runs    *services.TestRunService
	members *services.MembershipService
}

func NewTestCaseHandler(cases *services.TestCaseService, runs *services.TestRunService, members *services.MembershipService) *TestCaseHandler {
	return &TestCaseHandler{cases: cases, runs: runs, members: members}
}

// Create adds a test case
// POST /api/projects/:id/testcases
func (h *TestCaseHandler) Create(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireWriter(c, h.members, projectID); !ok {
		return
	}

	var req services.CreateTestCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tc, err := h.cases.Create(projectID, &req, actor(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Created(c, tc)
}

// List returns the project's test cases
// GET /api/projects/:id/testcases
func (h *TestCaseHandler) List(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireMember(c, h.members, projectID); !ok {
		return
	}

	var req services.TestCaseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.cases.List(projectID, &req)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, resp)
}

// Get returns one test case with its steps
// GET /api/projects/:id/testcases/:caseId
func (h *TestCaseHandler) Get(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	caseID, ok := parseUintParam(c, "caseId")
	if !ok {
		return
	}
	if _, ok := requireMember(c, h.members, projectID); !ok {
		return
	}

	tc, err := h.cases.GetByID(projectID, caseID)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, tc)
}

// Update edits a test case
// PUT /api/projects/:id/testcases/:caseId
func (h *TestCaseHandler) Update(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	caseID, ok := parseUintParam(c, "caseId")
	if !ok {
		return
	}
	if _, ok := requireWriter(c, h.members, projectID); !ok {
		return
	}

	var req services.UpdateTestCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tc, err := h.cases.Update(projectID, caseID, &req, actor(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, tc)
}

// Delete soft-deletes a test case
// DELETE /api/projects/:id/testcases/:caseId
func (h *TestCaseHandler) Delete(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	caseID, ok := parseUintParam(c, "caseId")
	if !ok {
		return
	}
	if _, ok := requireWriter(c, h.members, projectID); !ok {
		return
	}

	if err := h.cases.Delete(projectID, caseID, actor(c)); err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "test case deleted"})
}

// LogRun records an execution of a test case
// POST /api/projects/:id/testcases/:caseId/runs
func (h *TestCaseHandler) LogRun(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	caseID, ok := parseUintParam(c, "caseId")
	if !ok {
		return
	}
	if _, ok := requireWriter(c, h.members, projectID); !ok {
		return
	}

	var req services.LogTestRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	run, err := h.runs.Log(projectID, caseID, &req, actor(c))
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Created(c, run)
}

// ListRuns returns the project's run history
// GET /api/projects/:id/testruns
func (h *TestCaseHandler) ListRuns(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if _, ok := requireMember(c, h.members, projectID); !ok {
		return
	}

	var req services.TestRunListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.runs.List(projectID, &req)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, resp)
}

// GetRun returns one run with its step results
// GET /api/projects/:id/testruns/:runId
func (h *TestCaseHandler) GetRun(c *gin.Context) {
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	runID, ok := parseUintParam(c, "runId")
	if !ok {
		return
	}
	if _, ok := requireMember(c, h.members, projectID); !ok {
		return
	}

	run, err := h.runs.GetByID(projectID, runID)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, run)
}
