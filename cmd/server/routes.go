package main

import (
	"github.com/gin-gonic/gin"

	"github.com/bugtrackpro/backend/internal/middleware"
	"github.com/bugtrackpro/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	// Rate limiter for the public auth endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/signup", svc.authHandler.SignUp)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Account
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.PUT("/auth/me", svc.authHandler.UpdateProfile)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)
			protected.POST("/auth/logout", svc.authHandler.Logout)

			// Projects
			protected.GET("/projects", svc.projectHandler.List)
			protected.POST("/projects", svc.projectHandler.Create)
			protected.GET("/projects/:id", svc.projectHandler.Get)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)
			protected.POST("/projects/:id/archive", svc.projectHandler.Archive)
			protected.GET("/projects/:id/activity", svc.projectHandler.Activity)

			// Members
			protected.GET("/projects/:id/members", svc.memberHandler.List)
			protected.DELETE("/projects/:id/members/:userId", svc.memberHandler.Remove)

			// Invitations
			protected.POST("/projects/:id/invitations", svc.invitationHandler.Create)
			protected.GET("/projects/:id/invitations", svc.invitationHandler.ListForProject)
			protected.GET("/invitations", svc.invitationHandler.ListMine)
			protected.POST("/invitations/accept", svc.invitationHandler.Accept)
			protected.POST("/invitations/decline", svc.invitationHandler.Decline)

			// Bugs
			protected.POST("/projects/:id/bugs", svc.bugHandler.Create)
			protected.GET("/projects/:id/bugs", svc.bugHandler.List)
			protected.GET("/projects/:id/bugs/:bugId", svc.bugHandler.Get)
			protected.PUT("/projects/:id/bugs/:bugId", svc.bugHandler.Update)
			protected.POST("/projects/:id/bugs/:bugId/status", svc.bugHandler.ChangeStatus)
			protected.DELETE("/projects/:id/bugs/:bugId", svc.bugHandler.Delete)

			// Test cases and runs
			protected.POST("/projects/:id/testcases", svc.testCaseHandler.Create)
			protected.GET("/projects/:id/testcases", svc.testCaseHandler.List)
			protected.GET("/projects/:id/testcases/:caseId", svc.testCaseHandler.Get)
			protected.PUT("/projects/:id/testcases/:caseId", svc.testCaseHandler.Update)
			protected.DELETE("/projects/:id/testcases/:caseId", svc.testCaseHandler.Delete)
			protected.POST("/projects/:id/testcases/:caseId/runs", svc.testCaseHandler.LogRun)
			protected.GET("/projects/:id/testruns", svc.testCaseHandler.ListRuns)
			protected.GET("/projects/:id/testruns/:runId", svc.testCaseHandler.GetRun)

			// Comments
			protected.POST("/projects/:id/comments", svc.commentHandler.Create)
			protected.GET("/projects/:id/comments", svc.commentHandler.List)
			protected.PUT("/projects/:id/comments/:commentId", svc.commentHandler.Update)
			protected.DELETE("/projects/:id/comments/:commentId", svc.commentHandler.Delete)
		}
	}
}
