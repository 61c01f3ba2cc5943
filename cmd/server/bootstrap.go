package main

import (
	"github.com/bugtrackpro/backend/internal/config"
	"github.com/bugtrackpro/backend/internal/handlers"
	"github.com/bugtrackpro/backend/internal/models"
	"github.com/bugtrackpro/backend/internal/services"
	"github.com/bugtrackpro/backend/internal/utils"
	"github.com/bugtrackpro/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	taskQueue services.TaskQueue
	worker    *services.Worker
	sweeper   *services.Sweeper

	authHandler       *handlers.AuthHandler
	projectHandler    *handlers.ProjectHandler
	memberHandler     *handlers.MemberHandler
	invitationHandler *handlers.InvitationHandler
	bugHandler        *handlers.BugHandler
	testCaseHandler   *handlers.TestCaseHandler
	commentHandler    *handlers.CommentHandler
	healthHandler     *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)
	utils.SetJWTIssuer(cfg.JWT.Issuer)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// Services
	sequences := services.NewSequenceService(db)
	activity := services.NewActivityService(db)
	invites := services.NewInvitationService(db, &cfg.Invite)
	members := services.NewMembershipService(db)
	reconciler := services.NewReconciler(db, invites, members, activity)
	projects := services.NewProjectService(db)
	bugs := services.NewBugService(db, sequences, activity)
	testCases := services.NewTestCaseService(db, sequences, activity)
	testRuns := services.NewTestRunService(db, activity)
	comments := services.NewCommentService(db, activity)

	// Task queue (Redis-backed if enabled, inline sync mode otherwise)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(reconciler.ProcessReconcileTask)
	}

	var worker *services.Worker
	if taskQueue.IsAsync() {
		worker = services.InitWorker(&cfg.Redis)
		worker.SetProcessor(reconciler.ProcessReconcileTask)
		worker.Start()
	}

	// Invitation expiry sweeper
	sweeper := services.NewSweeper(invites)
	if err := sweeper.Start(); err != nil {
		logger.Warn().Err(err).Msg("failed to start invitation sweeper")
	}

	auth := services.NewAuthService(db, &cfg.JWT, taskQueue)

	return &appServices{
		taskQueue:         taskQueue,
		worker:            worker,
		sweeper:           sweeper,
		authHandler:       handlers.NewAuthHandler(auth),
		projectHandler:    handlers.NewProjectHandler(projects, members, activity),
		memberHandler:     handlers.NewMemberHandler(members, activity),
		invitationHandler: handlers.NewInvitationHandler(invites, projects, members, reconciler, activity),
		bugHandler:        handlers.NewBugHandler(bugs, members),
		testCaseHandler:   handlers.NewTestCaseHandler(testCases, testRuns, members),
		commentHandler:    handlers.NewCommentHandler(comments, members),
		healthHandler:     handlers.NewHealthHandler(),
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	s.sweeper.Stop()
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("background services stopped")
}
