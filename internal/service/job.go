package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bdec/jobboard/internal/apperror"
	"github.com/bdec/jobboard/internal/model"
	"github.com/bdec/jobboard/internal/repository"
)

// Field ceilings for postings. Generous — they only exist so a stray paste
// can't park megabytes in a TEXT column.
const (
	MaxJobTitleLength       = 150
	MaxJobDescriptionLength = 10000
)

// JobService handles business logic for vacancy postings.
type JobService struct {
	jobs   repository.JobRepository
	logger *slog.Logger
}

func NewJobService(jobs repository.JobRepository, logger *slog.Logger) *JobService {
	return &JobService{jobs: jobs, logger: logger}
}

// List returns all postings, newest first.
func (s *JobService) List(ctx context.Context) ([]model.Job, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/job: listing jobs: %w", err)
	}
	return jobs, nil
}

// Create validates and stores a new posting. The caller's struct comes
// back with the generated ID and timestamp filled in.
//
// Validation lives here (not only in the handler) so any future caller —
// the seeder, an import job — gets the same rules.
func (s *JobService) Create(ctx context.Context, job *model.Job) (*model.Job, error) {
	job.Title = strings.TrimSpace(job.Title)
	job.Company = strings.TrimSpace(job.Company)
	job.Description = strings.TrimSpace(job.Description)

	switch {
	case job.Title == "":
		return nil, apperror.ValidationFailed("title", "title is required")
	case len(job.Title) > MaxJobTitleLength:
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or fewer", MaxJobTitleLength))
	case job.Company == "":
		return nil, apperror.ValidationFailed("company", "company is required")
	case job.Description == "":
		return nil, apperror.ValidationFailed("description", "description is required")
	case len(job.Description) > MaxJobDescriptionLength:
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or fewer", MaxJobDescriptionLength))
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("service/job: creating job: %w", err)
	}

	s.logger.Info("job posted",
		slog.Int64("jobID", job.ID),
		slog.String("title", job.Title),
		slog.String("company", job.Company),
	)
	return job, nil
}

// Delete removes a posting and its applications. The admin capability is
// enforced at the route by the session guard, not re-checked here.
func (s *JobService) Delete(ctx context.Context, id int64) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/job: deleting job %d: %w", id, err)
	}

	s.logger.Info("job deleted", slog.Int64("jobID", id))
	return nil
}
