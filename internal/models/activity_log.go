package models

import (
	"time"
)

const (
	ActivityBugCreated       = "bug_created"
	ActivityBugUpdated       = "bug_updated"
	ActivityBugStatusChanged = "bug_status_changed"
	ActivityBugDeleted       = "bug_deleted"

	ActivityTestCaseCreated = "testcase_created"
	ActivityTestCaseUpdated = "testcase_updated"
	ActivityTestCaseDeleted = "testcase_deleted"
	ActivityTestRunLogged   = "testrun_logged"

	ActivityCommentAdded   = "comment_added"
	ActivityCommentEdited  = "comment_edited"
	ActivityCommentDeleted = "comment_deleted"

	ActivityProjectCreated = "project_created"
	ActivityProjectUpdated = "project_updated"
	ActivityMemberInvited  = "member_invited"
	ActivityMemberAdded    = "member_added"
	ActivityMemberRemoved  = "member_removed"
)

const (
	ActivityEntityBug      = "bug"
	ActivityEntityTestCase = "testcase"
	ActivityEntityTestRun  = "testrun"
	ActivityEntityComment  = "comment"
	ActivityEntityProject  = "project"
	ActivityEntityMember   = "member"
)

// ActivityLog is one immutable audit entry powering the project activity
// feed. Never updated or deleted. ActorName and EntityTitle are denormalized
// so the feed renders without extra lookups; Metadata carries action-specific
// key/value pairs as JSON.
type ActivityLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"index:idx_activity_project_created;not null" json:"project_id"`
	ActorID     uint      `gorm:"not null" json:"actor_id"`
	ActorName   string    `gorm:"size:200" json:"actor_name"`
	Action      string    `gorm:"size:50;not null" json:"action"`
	EntityType  string    `gorm:"size:20" json:"entity_type"`
	EntityID    *uint     `json:"entity_id"`
	EntityTitle string    `gorm:"size:300" json:"entity_title"`
	Metadata    string    `gorm:"type:text" json:"metadata"`
	CreatedAt   time.Time `gorm:"index:idx_activity_project_created,sort:desc" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
