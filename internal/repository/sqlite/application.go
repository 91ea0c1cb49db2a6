package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bdec/jobboard/internal/apperror"
	"github.com/bdec/jobboard/internal/model"
	"github.com/bdec/jobboard/internal/repository"
)

// ApplicationRepo implements repository.ApplicationRepository on the
// shared pool.
type ApplicationRepo struct {
	conn *sql.DB
}

var _ repository.ApplicationRepository = (*ApplicationRepo)(nil)

// Create records an application with status pending.
//
// "Already applied" is detected by the UNIQUE(user_id, job_id) constraint
// on the INSERT itself, not by a check-then-insert — two concurrent
// identical applies race the same constraint and exactly one wins. The
// job-existence probe before it only upgrades the error to NotFound; a job
// deleted between the probe and the INSERT still trips the foreign key.
func (r *ApplicationRepo) Create(ctx context.Context, app *model.Application) error {
	var one int
	err := r.conn.QueryRowContext(ctx,
		`SELECT 1 FROM jobs WHERE id = ?`, app.JobID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return apperror.NotFound("job", app.JobID)
	}
	if err != nil {
		return fmt.Errorf("sqlite: checking job %d: %w", app.JobID, err)
	}

	app.Status = model.StatusPending
	app.AppliedAt = time.Now()

	result, err := r.conn.ExecContext(ctx,
		`INSERT INTO applications (user_id, job_id, status, applied_at)
		 VALUES (?, ?, ?, ?)`,
		app.UserID, app.JobID, app.Status, app.AppliedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "applications.user_id, applications.job_id") {
			return apperror.Conflict("you have already applied to this job")
		}
		return fmt.Errorf("sqlite: inserting application (user=%d job=%d): %w",
			app.UserID, app.JobID, err)
	}

	app.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new application id: %w", err)
	}

	return nil
}

// ListByUser returns a user's applications joined with the job columns the
// "my applications" view shows, newest first.
func (r *ApplicationRepo) ListByUser(ctx context.Context, userID int64) ([]model.UserApplication, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT a.id, a.user_id, a.job_id, a.status, a.applied_at,
		        j.title, j.company, j.location, j.category
		 FROM applications a
		 JOIN jobs j ON a.job_id = j.id
		 WHERE a.user_id = ?
		 ORDER BY a.applied_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications for user %d: %w", userID, err)
	}
	defer rows.Close()

	apps := []model.UserApplication{}
	for rows.Next() {
		var a model.UserApplication
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.JobID, &a.Status, &a.AppliedAt,
			&a.Title, &a.Company, &a.Location, &a.Category,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning application row: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating applications: %w", err)
	}

	return apps, nil
}

// ListAll returns every application joined with job and applicant display
// fields, newest first, for the admin dashboard.
func (r *ApplicationRepo) ListAll(ctx context.Context) ([]model.AdminApplication, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT a.id, a.user_id, a.job_id, a.status, a.applied_at,
		        j.title, j.company, u.name, u.email
		 FROM applications a
		 JOIN jobs j ON a.job_id = j.id
		 JOIN users u ON a.user_id = u.id
		 ORDER BY a.applied_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing all applications: %w", err)
	}
	defer rows.Close()

	apps := []model.AdminApplication{}
	for rows.Next() {
		var a model.AdminApplication
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.JobID, &a.Status, &a.AppliedAt,
			&a.JobTitle, &a.Company, &a.UserName, &a.UserEmail,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning application row: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating applications: %w", err)
	}

	return apps, nil
}

// ListRecent returns the latest applications as dashboard activity rows.
func (r *ApplicationRepo) ListRecent(ctx context.Context, limit int) ([]model.RecentApplication, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT a.applied_at, u.name, j.title
		 FROM applications a
		 JOIN users u ON a.user_id = u.id
		 JOIN jobs j ON a.job_id = j.id
		 ORDER BY a.applied_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing recent applications: %w", err)
	}
	defer rows.Close()

	recent := []model.RecentApplication{}
	for rows.Next() {
		var ra model.RecentApplication
		if err := rows.Scan(&ra.AppliedAt, &ra.UserName, &ra.JobTitle); err != nil {
			return nil, fmt.Errorf("sqlite: scanning recent application: %w", err)
		}
		recent = append(recent, ra)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating recent applications: %w", err)
	}

	return recent, nil
}

// Delete removes a single application by ID.
func (r *ApplicationRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.conn.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting application %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("application", id)
	}

	return nil
}

// Count returns the total number of applications, for the admin dashboard.
func (r *ApplicationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting applications: %w", err)
	}
	return n, nil
}
