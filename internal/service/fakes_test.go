package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/bdec/jobboard/internal/apperror"
	"github.com/bdec/jobboard/internal/auth"
	"github.com/bdec/jobboard/internal/model"
)

// Hand-written fakes instead of a mock framework: you can read exactly
// what each one does, and simulating failures is a one-field assignment.

// fakeUserRepo is an in-memory repository.UserRepository keyed by email.
type fakeUserRepo struct {
	byEmail map[string]*model.User
	nextID  int64
	// set to a non-nil error to simulate a database failure
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return apperror.Conflict("email is already registered")
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	stored := *user
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.byEmail)), nil
}

// fakeJobRepo is an in-memory repository.JobRepository.
type fakeJobRepo struct {
	jobs      []model.Job
	nextID    int64
	createErr error
}

func newFakeJobRepo() *fakeJobRepo { return &fakeJobRepo{nextID: 1} }

func (f *fakeJobRepo) List(_ context.Context) ([]model.Job, error) {
	return append([]model.Job{}, f.jobs...), nil
}

func (f *fakeJobRepo) Create(_ context.Context, job *model.Job) error {
	if f.createErr != nil {
		return f.createErr
	}
	job.ID = f.nextID
	f.nextID++
	job.PostedAt = time.Now()
	if job.Modality == "" {
		job.Modality = model.ModalityOnSite
	}
	f.jobs = append(f.jobs, *job)
	return nil
}

func (f *fakeJobRepo) Delete(_ context.Context, id int64) error {
	for i, j := range f.jobs {
		if j.ID == id {
			f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("job", id)
}

func (f *fakeJobRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.jobs)), nil
}

// fakeApplicationRepo is an in-memory repository.ApplicationRepository.
// It mirrors the real one's error contract: NotFound for a missing job,
// Conflict for a repeat (user, job) pair.
type fakeApplicationRepo struct {
	apps    []model.Application
	jobIDs  map[int64]bool
	nextID  int64
	listErr error
}

func newFakeApplicationRepo(jobIDs ...int64) *fakeApplicationRepo {
	known := make(map[int64]bool, len(jobIDs))
	for _, id := range jobIDs {
		known[id] = true
	}
	return &fakeApplicationRepo{jobIDs: known, nextID: 1}
}

func (f *fakeApplicationRepo) Create(_ context.Context, app *model.Application) error {
	if !f.jobIDs[app.JobID] {
		return apperror.NotFound("job", app.JobID)
	}
	for _, a := range f.apps {
		if a.UserID == app.UserID && a.JobID == app.JobID {
			return apperror.Conflict("you have already applied to this job")
		}
	}
	app.ID = f.nextID
	f.nextID++
	app.Status = model.StatusPending
	app.AppliedAt = time.Now()
	f.apps = append(f.apps, *app)
	return nil
}

func (f *fakeApplicationRepo) ListByUser(_ context.Context, userID int64) ([]model.UserApplication, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := []model.UserApplication{}
	for _, a := range f.apps {
		if a.UserID == userID {
			result = append(result, model.UserApplication{Application: a})
		}
	}
	return result, nil
}

func (f *fakeApplicationRepo) ListAll(_ context.Context) ([]model.AdminApplication, error) {
	result := []model.AdminApplication{}
	for _, a := range f.apps {
		result = append(result, model.AdminApplication{Application: a})
	}
	return result, nil
}

func (f *fakeApplicationRepo) ListRecent(_ context.Context, limit int) ([]model.RecentApplication, error) {
	result := []model.RecentApplication{}
	for i := len(f.apps) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, model.RecentApplication{AppliedAt: f.apps[i].AppliedAt})
	}
	return result, nil
}

func (f *fakeApplicationRepo) Delete(_ context.Context, id int64) error {
	for i, a := range f.apps {
		if a.ID == id {
			f.apps = append(f.apps[:i], f.apps[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("application", id)
}

func (f *fakeApplicationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.apps)), nil
}

// fakeMailer records welcome sends on a channel so tests can wait for the
// fire-and-forget goroutine instead of sleeping.
type fakeMailer struct {
	sent chan string // receives the recipient email
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 8)}
}

func (f *fakeMailer) SendWelcome(_ context.Context, toEmail, _ string) error {
	f.sent <- toEmail
	return f.err
}

// waitForMail blocks until a welcome mail goes out, or fails the test.
func (f *fakeMailer) waitForMail(t *testing.T) string {
	t.Helper()
	select {
	case to := <-f.sent:
		return to
	case <-time.After(2 * time.Second):
		t.Fatal("no welcome mail was sent")
		return ""
	}
}

// fakeVerifier returns a canned Google identity, or an error.
type fakeVerifier struct {
	identity *auth.GoogleIdentity
	err      error
	gotToken string
}

func (f *fakeVerifier) Verify(_ context.Context, idToken string) (*auth.GoogleIdentity, error) {
	f.gotToken = idToken
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

var errDatabaseDown = errors.New("database is on fire")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
