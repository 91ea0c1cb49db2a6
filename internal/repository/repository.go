// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage is the only implementation; tests use
// hand-written fakes.
package repository

import (
	"context"

	"github.com/bdec/jobboard/internal/model"
)

type UserRepository interface {
	// Create inserts a user. Returns apperror.ErrConflict when the email
	// is already registered.
	Create(ctx context.Context, user *model.User) error
	// GetByEmail returns apperror.ErrNotFound when no such email exists.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Count(ctx context.Context) (int64, error)
}

type JobRepository interface {
	// List returns all jobs, newest first.
	List(ctx context.Context) ([]model.Job, error)
	Create(ctx context.Context, job *model.Job) error
	// Delete removes the job and, first, every application referencing it,
	// in one transaction. Returns apperror.ErrNotFound for a missing id.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type ApplicationRepository interface {
	// Create inserts an application with status pending. Returns
	// apperror.ErrNotFound when the job doesn't exist and
	// apperror.ErrConflict when the (user, job) pair already applied.
	Create(ctx context.Context, app *model.Application) error
	ListByUser(ctx context.Context, userID int64) ([]model.UserApplication, error)
	ListAll(ctx context.Context) ([]model.AdminApplication, error)
	ListRecent(ctx context.Context, limit int) ([]model.RecentApplication, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
