package services

import (
	"errors"
	"testing"

	"github.com/bugtrackpro/backend/internal/models"
)

func newCommentFixture(t *testing.T) (*CommentService, *models.Bug, *models.User, *models.Project) {
	t.Helper()
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, db, owner, "P")
	bugs := NewBugService(db, NewSequenceService(db), NewActivityService(db))
	bug, err := bugs.Create(project.ID, &CreateBugRequest{Title: "b"}, owner)
	if err != nil {
		t.Fatalf("bug Create() failed: %v", err)
	}
	return NewCommentService(db, NewActivityService(db)), bug, owner, project
}

func TestCommentCreateAndThread(t *testing.T) {
	svc, bug, owner, project := newCommentFixture(t)

	top, err := svc.Create(project.ID, &CreateCommentRequest{
		EntityType: models.CommentEntityBug,
		EntityID:   bug.ID,
		Content:    "reproduced on iOS 17",
	}, owner)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	reply, err := svc.Create(project.ID, &CreateCommentRequest{
		EntityType:      models.CommentEntityBug,
		EntityID:        bug.ID,
		ParentCommentID: &top.ID,
		Content:         "same on Android",
	}, owner)
	if err != nil {
		t.Fatalf("reply Create() failed: %v", err)
	}

	// threading is one level: replying to a reply is refused
	_, err = svc.Create(project.ID, &CreateCommentRequest{
		EntityType:      models.CommentEntityBug,
		EntityID:        bug.ID,
		ParentCommentID: &reply.ID,
		Content:         "nested",
	}, owner)
	if !errors.Is(err, ErrBadCommentParent) {
		t.Errorf("nested reply error = %v, expected ErrBadCommentParent", err)
	}

	comments, err := svc.ListForEntity(project.ID, models.CommentEntityBug, bug.ID)
	if err != nil {
		t.Fatalf("ListForEntity() failed: %v", err)
	}
	if len(comments) != 2 {
		t.Errorf("comments = %d, expected 2", len(comments))
	}
}

func TestCommentCreate_UnknownEntity(t *testing.T) {
	svc, _, owner, project := newCommentFixture(t)

	_, err := svc.Create(project.ID, &CreateCommentRequest{
		EntityType: models.CommentEntityTestCase,
		EntityID:   999,
		Content:    "into the void",
	}, owner)
	if !errors.Is(err, ErrBadCommentEntity) {
		t.Errorf("Create() on missing entity error = %v, expected ErrBadCommentEntity", err)
	}
}

func TestCommentUpdate_AuthorOnly(t *testing.T) {
	svc, bug, owner, project := newCommentFixture(t)

	comment, _ := svc.Create(project.ID, &CreateCommentRequest{
		EntityType: models.CommentEntityBug, EntityID: bug.ID, Content: "v1",
	}, owner)

	stranger := &models.User{Email: "x@y.com", FullName: "X"}
	stranger.ID = owner.ID + 100

	if _, err := svc.Update(project.ID, comment.ID, "hijacked", stranger); !errors.Is(err, ErrNotCommentAuthor) {
		t.Errorf("non-author Update() error = %v, expected ErrNotCommentAuthor", err)
	}

	updated, err := svc.Update(project.ID, comment.ID, "v2", owner)
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if updated.Content != "v2" || !updated.IsEdited {
		t.Errorf("comment = %+v, expected edited content v2", updated)
	}

	if err := svc.Delete(project.ID, comment.ID, stranger); !errors.Is(err, ErrNotCommentAuthor) {
		t.Errorf("non-author Delete() error = %v, expected ErrNotCommentAuthor", err)
	}
	if err := svc.Delete(project.ID, comment.ID, owner); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
}
