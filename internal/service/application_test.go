package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bdec/jobboard/internal/apperror"
	"github.com/bdec/jobboard/internal/model"
)

func TestApply_Success(t *testing.T) {
	repo := newFakeApplicationRepo(1)
	svc := NewApplicationService(repo, testLogger())

	app, err := svc.Apply(context.Background(), 42, 1)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if app.ID == 0 {
		t.Error("expected application to have an ID")
	}
	if app.Status != model.StatusPending {
		t.Errorf("Status = %q, want %q", app.Status, model.StatusPending)
	}
	if app.UserID != 42 || app.JobID != 1 {
		t.Errorf("application = user %d / job %d, want 42 / 1", app.UserID, app.JobID)
	}
}

func TestApply_InvalidJobID(t *testing.T) {
	repo := newFakeApplicationRepo()
	svc := NewApplicationService(repo, testLogger())

	for _, jobID := range []int64{0, -1} {
		_, err := svc.Apply(context.Background(), 42, jobID)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Apply(jobID=%d) error = %v, want ErrValidation", jobID, err)
		}
	}
}

func TestApply_JobNotFound(t *testing.T) {
	repo := newFakeApplicationRepo() // knows no jobs
	svc := NewApplicationService(repo, testLogger())

	_, err := svc.Apply(context.Background(), 42, 7)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Apply() error = %v, want ErrNotFound", err)
	}
}

func TestApply_Duplicate(t *testing.T) {
	repo := newFakeApplicationRepo(1)
	svc := NewApplicationService(repo, testLogger())

	if _, err := svc.Apply(context.Background(), 42, 1); err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}

	_, err := svc.Apply(context.Background(), 42, 1)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second Apply() error = %v, want ErrConflict", err)
	}
}

func TestListMine(t *testing.T) {
	repo := newFakeApplicationRepo(1, 2)
	svc := NewApplicationService(repo, testLogger())

	svc.Apply(context.Background(), 42, 1)
	svc.Apply(context.Background(), 42, 2)
	svc.Apply(context.Background(), 99, 1)

	mine, err := svc.ListMine(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListMine() error = %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("ListMine() returned %d applications, want 2", len(mine))
	}
}

func TestListMine_RepositoryError(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.listErr = errDatabaseDown
	svc := NewApplicationService(repo, testLogger())

	_, err := svc.ListMine(context.Background(), 42)
	if !errors.Is(err, errDatabaseDown) {
		t.Errorf("ListMine() error = %v, want wrapped errDatabaseDown", err)
	}
}

func TestApplicationDelete_NotFoundPassesThrough(t *testing.T) {
	repo := newFakeApplicationRepo()
	svc := NewApplicationService(repo, testLogger())

	err := svc.Delete(context.Background(), 9999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
