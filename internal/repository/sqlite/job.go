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

// JobRepo implements repository.JobRepository on the shared pool.
type JobRepo struct {
	conn *sql.DB
}

var _ repository.JobRepository = (*JobRepo)(nil)

// List returns every job on the board, newest first. The board is scoped
// to a single community — no pagination by design.
func (r *JobRepo) List(ctx context.Context) ([]model.Job, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, title, company, location, category, salary, modality,
		        requirements, description, posted_at
		 FROM jobs
		 ORDER BY posted_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing jobs: %w", err)
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Company, &j.Location, &j.Category,
			&j.Salary, &j.Modality, &j.Requirements, &j.Description,
			&j.PostedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning job row: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating jobs: %w", err)
	}

	return jobs, nil
}

// Create inserts a new job and fills in the generated ID and timestamp.
func (r *JobRepo) Create(ctx context.Context, job *model.Job) error {
	job.PostedAt = time.Now()
	if job.Modality == "" {
		job.Modality = model.ModalityOnSite
	}

	result, err := r.conn.ExecContext(ctx,
		`INSERT INTO jobs (title, company, location, category, salary,
		                   modality, requirements, description, posted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.Title,
		job.Company,
		job.Location,
		job.Category,
		job.Salary,
		job.Modality,
		job.Requirements,
		job.Description,
		job.PostedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting job %q: %w", job.Title, err)
	}

	job.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new job id: %w", err)
	}

	return nil
}

// Delete removes a job and every application referencing it.
//
// The two deletes run in one transaction: either the job and its
// applications all disappear, or nothing does. Applications go first so
// the foreign key on applications.job_id never dangles.
func (r *JobRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete transaction: %w", err)
	}
	// No-op after a successful Commit.
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM applications WHERE job_id = ?`, id,
	); err != nil {
		return fmt.Errorf("sqlite: deleting applications for job %d: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting job %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("job", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing job delete: %w", err)
	}
	return nil
}

// Count returns the total number of jobs, for the admin dashboard.
func (r *JobRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting jobs: %w", err)
	}
	return n, nil
}
