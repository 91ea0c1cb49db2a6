package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bdec/jobboard/internal/apperror"
	"github.com/bdec/jobboard/internal/model"
)

func TestApplicationCreate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Applicant", "app@example.com")
	job := createTestJob(t, db, "open position")

	app := &model.Application{UserID: user.ID, JobID: job.ID}
	err := db.Applications().Create(context.Background(), app)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if app.ID == 0 {
		t.Error("Create() did not set app.ID")
	}
	if app.Status != model.StatusPending {
		t.Errorf("Status = %q, want %q", app.Status, model.StatusPending)
	}
	if app.AppliedAt.IsZero() {
		t.Error("Create() did not set app.AppliedAt")
	}
}

func TestApplicationCreate_Duplicate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Applicant", "app@example.com")
	job := createTestJob(t, db, "popular position")
	createTestApplication(t, db, user.ID, job.ID)

	err := db.Applications().Create(context.Background(),
		&model.Application{UserID: user.ID, JobID: job.ID})

	if err == nil {
		t.Fatal("Create() should have failed on a second application to the same job")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

func TestApplicationCreate_JobNotFound(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Applicant", "app@example.com")

	err := db.Applications().Create(context.Background(),
		&model.Application{UserID: user.ID, JobID: 9999})

	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Create() error = %v, want ErrNotFound", err)
	}
}

func TestApplicationCreate_SameJobDifferentUsers(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")
	job := createTestJob(t, db, "shared position")

	createTestApplication(t, db, alice.ID, job.ID)

	// A different user applying to the same job is not a duplicate.
	err := db.Applications().Create(context.Background(),
		&model.Application{UserID: bob.ID, JobID: job.ID})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
}

func TestApplicationListByUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")
	job := createTestJob(t, db, "listed position")

	createTestApplication(t, db, alice.ID, job.ID)
	createTestApplication(t, db, bob.ID, job.ID)

	apps, err := db.Applications().ListByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("ListByUser() returned %d applications, want 1", len(apps))
	}

	// The join must fill in the job's display columns.
	got := apps[0]
	if got.Title != "listed position" {
		t.Errorf("Title = %q, want %q", got.Title, "listed position")
	}
	if got.Company != "Cooperativa BDEC" {
		t.Errorf("Company = %q, want %q", got.Company, "Cooperativa BDEC")
	}
	if got.Location != "Buenos Aires" {
		t.Errorf("Location = %q, want %q", got.Location, "Buenos Aires")
	}
	if got.Category != "Tecnología" {
		t.Errorf("Category = %q, want %q", got.Category, "Tecnología")
	}
}

func TestApplicationListByUser_Empty(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Lurker", "lurker@example.com")

	apps, err := db.Applications().ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(apps) != 0 {
		t.Errorf("ListByUser() returned %d applications, want 0", len(apps))
	}
}

func TestApplicationListAll(t *testing.T) {
	db := newTestDB(t)

	alice := createTestUser(t, db, "Alice", "alice@example.com")
	job := createTestJob(t, db, "admin-visible position")
	createTestApplication(t, db, alice.ID, job.ID)

	apps, err := db.Applications().ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("ListAll() returned %d applications, want 1", len(apps))
	}

	got := apps[0]
	if got.JobTitle != "admin-visible position" {
		t.Errorf("JobTitle = %q, want %q", got.JobTitle, "admin-visible position")
	}
	if got.UserName != "Alice" {
		t.Errorf("UserName = %q, want %q", got.UserName, "Alice")
	}
	if got.UserEmail != "alice@example.com" {
		t.Errorf("UserEmail = %q, want %q", got.UserEmail, "alice@example.com")
	}
}

func TestApplicationListRecent_Limit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Busy", "busy@example.com")
	for i := 0; i < 7; i++ {
		job := createTestJob(t, db, "position")
		createTestApplication(t, db, user.ID, job.ID)
		time.Sleep(2 * time.Millisecond) // distinct applied_at timestamps
	}

	recent, err := db.Applications().ListRecent(ctx, 5)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(recent) != 5 {
		t.Errorf("ListRecent(5) returned %d rows, want 5", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].AppliedAt.After(recent[i-1].AppliedAt) {
			t.Errorf("ListRecent() not ordered newest first at index %d", i)
		}
	}
}

func TestApplicationDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Applicant", "app@example.com")
	job := createTestJob(t, db, "withdrawable position")
	app := createTestApplication(t, db, user.ID, job.ID)

	if err := db.Applications().Delete(ctx, app.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	apps, err := db.Applications().ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser() after delete error = %v", err)
	}
	if len(apps) != 0 {
		t.Errorf("ListByUser() after delete returned %d, want 0", len(apps))
	}

	// Removing the application frees the slot — applying again succeeds.
	if err := db.Applications().Create(ctx, &model.Application{UserID: user.ID, JobID: job.ID}); err != nil {
		t.Errorf("Create() after delete error = %v", err)
	}
}

func TestApplicationDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Applications().Delete(context.Background(), 9999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestApplicationCount(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "Applicant", "app@example.com")
	first := createTestJob(t, db, "first")
	second := createTestJob(t, db, "second")
	createTestApplication(t, db, user.ID, first.ID)
	createTestApplication(t, db, user.ID, second.ID)

	n, err := db.Applications().Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}
