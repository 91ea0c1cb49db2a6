package sqlite

import (
	"context"
	"testing"

	"github.com/bdec/jobboard/internal/model"
)

// newTestDB opens a fresh in-memory database with the full schema applied.
// ":memory:" databases vanish on Close, so every test starts clean.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, Password: "hashed-password"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestJob(t *testing.T, db *DB, title string) *model.Job {
	t.Helper()
	job := &model.Job{
		Title:       title,
		Company:     "Cooperativa BDEC",
		Location:    "Buenos Aires",
		Category:    "Tecnología",
		Salary:      "A convenir",
		Description: "Puesto de prueba",
	}
	if err := db.Jobs().Create(context.Background(), job); err != nil {
		t.Fatalf("failed to create test job: %v", err)
	}
	return job
}

func createTestApplication(t *testing.T, db *DB, userID, jobID int64) *model.Application {
	t.Helper()
	app := &model.Application{UserID: userID, JobID: jobID}
	if err := db.Applications().Create(context.Background(), app); err != nil {
		t.Fatalf("failed to create test application: %v", err)
	}
	return app
}
