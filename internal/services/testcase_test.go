package services

import (
	"errors"
	"testing"

	"github.com/bugtrackpro/backend/internal/models"
)

func TestTestCaseCreate_NumbersAndSteps(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestCaseService(db, NewSequenceService(db), NewActivityService(db))
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, db, owner, "P")

	tc, err := svc.Create(project.ID, &CreateTestCaseRequest{
		Title: "login flow",
		Steps: []TestCaseStepInput{
			{Action: "open app", ExpectedOutcome: "login screen shown"},
			{Action: "enter credentials"},
			{Action: "tap login", ExpectedOutcome: "dashboard shown"},
		},
	}, owner)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if tc.CaseNumber != 1 {
		t.Errorf("caseNumber = %d, expected 1", tc.CaseNumber)
	}
	if tc.Status != models.TestCaseStatusDraft {
		t.Errorf("status = %q, expected draft", tc.Status)
	}
	if len(tc.Steps) != 3 {
		t.Fatalf("steps = %d, expected 3", len(tc.Steps))
	}
	for i, step := range tc.Steps {
		if step.StepNumber != i+1 {
			t.Errorf("step %d numbered %d, expected 1-based order", i, step.StepNumber)
		}
	}
}

func TestTestCaseUpdate_ReplacesSteps(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestCaseService(db, NewSequenceService(db), NewActivityService(db))
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, db, owner, "P")

	tc, _ := svc.Create(project.ID, &CreateTestCaseRequest{
		Title: "c",
		Steps: []TestCaseStepInput{{Action: "old step one"}, {Action: "old step two"}},
	}, owner)

	updated, err := svc.Update(project.ID, tc.ID, &UpdateTestCaseRequest{
		Status: models.TestCaseStatusActive,
		Steps:  []TestCaseStepInput{{Action: "new only step"}},
	}, owner)
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	if updated.Status != models.TestCaseStatusActive {
		t.Errorf("status = %q, expected active", updated.Status)
	}
	if len(updated.Steps) != 1 {
		t.Fatalf("steps = %d, expected replacement set of 1", len(updated.Steps))
	}
	if updated.Steps[0].StepNumber != 1 || updated.Steps[0].Action != "new only step" {
		t.Errorf("step = %+v, expected renumbered new step", updated.Steps[0])
	}

	var orphaned int64
	db.Model(&models.TestCaseStep{}).Where("test_case_id = ?", tc.ID).Count(&orphaned)
	if orphaned != 1 {
		t.Errorf("%d step rows persisted, expected 1 (old ones removed)", orphaned)
	}
}

func TestTestRunLog(t *testing.T) {
	db := newTestDB(t)
	cases := NewTestCaseService(db, NewSequenceService(db), NewActivityService(db))
	runs := NewTestRunService(db, NewActivityService(db))
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, db, owner, "P")

	tc, _ := cases.Create(project.ID, &CreateTestCaseRequest{
		Title: "checkout",
		Steps: []TestCaseStepInput{{Action: "add to cart"}, {Action: "pay"}},
	}, owner)

	run, err := runs.Log(project.ID, tc.ID, &LogTestRunRequest{
		Result:     models.TestRunFailed,
		AppVersion: "2.1.0",
		StepResults: []StepResultInput{
			{StepNumber: 1, Result: models.TestRunPassed},
			{StepNumber: 2, Result: models.TestRunFailed, ActualOutcome: "payment spinner forever"},
		},
	}, owner)
	if err != nil {
		t.Fatalf("Log() failed: %v", err)
	}

	if run.Result != models.TestRunFailed {
		t.Errorf("result = %q, expected failed", run.Result)
	}
	if run.ExecutedAt.IsZero() {
		t.Error("executedAt should be stamped")
	}
	if len(run.StepResults) != 2 {
		t.Fatalf("stepResults = %d, expected 2", len(run.StepResults))
	}

	// a second run is a new record, not an update
	if _, err := runs.Log(project.ID, tc.ID, &LogTestRunRequest{Result: models.TestRunPassed}, owner); err != nil {
		t.Fatalf("second Log() failed: %v", err)
	}
	resp, err := runs.List(project.ID, &TestRunListRequest{TestCaseID: tc.ID})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("run history total = %d, expected 2", resp.Total)
	}
}

func TestTestRunLog_Validation(t *testing.T) {
	db := newTestDB(t)
	runs := NewTestRunService(db, NewActivityService(db))
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, db, owner, "P")

	if _, err := runs.Log(project.ID, 1, &LogTestRunRequest{Result: "maybe"}, owner); !errors.Is(err, ErrInvalidRunResult) {
		t.Errorf("bad result error = %v, expected ErrInvalidRunResult", err)
	}
	if _, err := runs.Log(project.ID, 999, &LogTestRunRequest{Result: models.TestRunPassed}, owner); !errors.Is(err, ErrTestCaseNotFound) {
		t.Errorf("unknown case error = %v, expected ErrTestCaseNotFound", err)
	}
}
