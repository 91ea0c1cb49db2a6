package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bdec/jobboard/internal/apperror"
	"github.com/bdec/jobboard/internal/model"
	"github.com/bdec/jobboard/internal/repository"
)

// ApplicationService handles the rules around job applications.
type ApplicationService struct {
	apps   repository.ApplicationRepository
	logger *slog.Logger
}

func NewApplicationService(apps repository.ApplicationRepository, logger *slog.Logger) *ApplicationService {
	return &ApplicationService{apps: apps, logger: logger}
}

// Apply records an application by userID for jobID.
// The repository reports NotFound for a missing job and Conflict for a
// repeat application; both pass through untouched.
func (s *ApplicationService) Apply(ctx context.Context, userID, jobID int64) (*model.Application, error) {
	if jobID <= 0 {
		return nil, apperror.ValidationFailed("jobId", "job id is required")
	}

	app := &model.Application{UserID: userID, JobID: jobID}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("service/application: applying (user=%d job=%d): %w", userID, jobID, err)
	}

	s.logger.Info("application submitted",
		slog.Int64("userID", userID),
		slog.Int64("jobID", jobID),
	)
	return app, nil
}

// ListMine returns the calling user's applications with job context.
func (s *ApplicationService) ListMine(ctx context.Context, userID int64) ([]model.UserApplication, error) {
	apps, err := s.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/application: listing for user %d: %w", userID, err)
	}
	return apps, nil
}

// ListAll returns every application for the admin dashboard.
func (s *ApplicationService) ListAll(ctx context.Context) ([]model.AdminApplication, error) {
	apps, err := s.apps.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/application: listing all: %w", err)
	}
	return apps, nil
}

// Delete removes one application (admin operation).
func (s *ApplicationService) Delete(ctx context.Context, id int64) error {
	if err := s.apps.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/application: deleting application %d: %w", id, err)
	}

	s.logger.Info("application deleted", slog.Int64("applicationID", id))
	return nil
}
