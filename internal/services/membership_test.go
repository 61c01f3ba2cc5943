package services

import (
	"errors"
	"testing"

	"github.com/bugtrackpro/backend/internal/models"
)

func TestAddMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, db, owner, "P")

	member, err := svc.AddMember(project.ID, 42, "tester@example.com", "Tess Tester", models.RoleTester, owner.ID)
	if err != nil {
		t.Fatalf("AddMember() failed: %v", err)
	}
	if member.Role != models.RoleTester {
		t.Errorf("role = %q, expected tester", member.Role)
	}
	if member.JoinedAt.IsZero() {
		t.Error("joinedAt should be set")
	}

	members, err := svc.ListMembers(project.ID)
	if err != nil {
		t.Fatalf("ListMembers() failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("roster has %d entries, expected 2 (owner + tester)", len(members))
	}
}

func TestAddMember_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, db, owner, "P")

	if _, err := svc.AddMember(project.ID, 42, "t@example.com", "T", models.RoleTester, owner.ID); err != nil {
		t.Fatalf("first AddMember() failed: %v", err)
	}

	_, err := svc.AddMember(project.ID, 42, "t@example.com", "T", models.RoleViewer, owner.ID)
	if !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("second AddMember() error = %v, expected ErrAlreadyMember", err)
	}

	// the duplicate attempt must not change the existing entry
	member, err := svc.GetMember(project.ID, 42)
	if err != nil {
		t.Fatalf("GetMember() failed: %v", err)
	}
	if member.Role != models.RoleTester {
		t.Errorf("role = %q, duplicate add must not overwrite the original", member.Role)
	}

	var count int64
	db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, 42).
		Count(&count)
	if count != 1 {
		t.Errorf("roster has %d entries for the user, expected exactly 1", count)
	}
}

func TestAddMember_SameUserTwoProjects(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)
	owner := createTestUser(t, db, "owner@example.com")
	p1 := createTestProject(t, db, owner, "P1")
	p2 := createTestProject(t, db, owner, "P2")

	if _, err := svc.AddMember(p1.ID, 42, "t@example.com", "T", models.RoleTester, owner.ID); err != nil {
		t.Fatalf("AddMember() to p1 failed: %v", err)
	}
	if _, err := svc.AddMember(p2.ID, 42, "t@example.com", "T", models.RoleViewer, owner.ID); err != nil {
		t.Errorf("AddMember() to p2 should succeed, got: %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, db, owner, "P")

	svc.AddMember(project.ID, 42, "t@example.com", "T", models.RoleTester, owner.ID)

	if err := svc.RemoveMember(project.ID, 42); err != nil {
		t.Fatalf("RemoveMember() failed: %v", err)
	}
	if _, err := svc.GetMember(project.ID, 42); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("GetMember() after removal error = %v, expected ErrMemberNotFound", err)
	}

	if err := svc.RemoveMember(project.ID, 42); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("removing twice error = %v, expected ErrMemberNotFound", err)
	}
}

func TestRemoveMember_OwnerProtected(t *testing.T) {
	db := newTestDB(t)
	svc := NewMembershipService(db)
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, db, owner, "P")

	err := svc.RemoveMember(project.ID, owner.ID)
	if !errors.Is(err, ErrCannotRemoveOwner) {
		t.Errorf("RemoveMember(owner) error = %v, expected ErrCannotRemoveOwner", err)
	}
}
