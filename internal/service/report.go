package service

import (
	"context"
	"fmt"

	"github.com/bdec/jobboard/internal/model"
	"github.com/bdec/jobboard/internal/repository"
)

// recentAppsLimit caps the dashboard's recent-activity feed.
const recentAppsLimit = 5

// ReportService computes the admin dashboard aggregates. Read-only; it
// leans on the three repositories rather than owning queries of its own.
type ReportService struct {
	users repository.UserRepository
	jobs  repository.JobRepository
	apps  repository.ApplicationRepository
}

func NewReportService(
	users repository.UserRepository,
	jobs repository.JobRepository,
	apps repository.ApplicationRepository,
) *ReportService {
	return &ReportService{users: users, jobs: jobs, apps: apps}
}

// Stats returns the row totals plus the five most recent applications.
// The counts run as separate statements; a feed that is one insert ahead
// of a count is invisible at dashboard granularity.
func (s *ReportService) Stats(ctx context.Context) (*model.DashboardReport, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/report: counting users: %w", err)
	}
	jobs, err := s.jobs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/report: counting jobs: %w", err)
	}
	apps, err := s.apps.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/report: counting applications: %w", err)
	}

	recent, err := s.apps.ListRecent(ctx, recentAppsLimit)
	if err != nil {
		return nil, fmt.Errorf("service/report: listing recent applications: %w", err)
	}

	return &model.DashboardReport{
		Stats: model.DashboardStats{
			Users:        users,
			Jobs:         jobs,
			Applications: apps,
		},
		RecentApps: recent,
	}, nil
}
