package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bugtrackpro/backend/internal/config"
	"github.com/bugtrackpro/backend/internal/models"
)

// newTestDB opens a fresh in-memory database and migrates the full schema.
// A single connection serializes concurrent access, which sqlite needs and
// the sequence tests exploit.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Invitation{},
		&models.Counter{},
		&models.Bug{},
		&models.BugStatusChange{},
		&models.TestCase{},
		&models.TestCaseStep{},
		&models.TestRun{},
		&models.TestStepResult{},
		&models.Comment{},
		&models.ActivityLog{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

func testInviteConfig() *config.InviteConfig {
	return &config.InviteConfig{TTLDays: 7, PendingPolicy: "supersede"}
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		FullName:     "Test User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Project {
	t.Helper()
	svc := NewProjectService(db)
	project, err := svc.Create(&CreateProjectRequest{Name: name}, owner)
	if err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}
