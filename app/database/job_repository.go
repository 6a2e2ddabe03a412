package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobRepositoryImpl handles database operations for scraping jobs.
type JobRepositoryImpl struct {
	db *DB
}

var _ JobRepository = (*JobRepositoryImpl)(nil)

func NewJobRepository(db *DB) *JobRepositoryImpl {
	return &JobRepositoryImpl{db: db}
}

const jobColumns = `id, keyword, city, province, status, leads_found, error_message,
	created_at, started_at, completed_at`

func (r *JobRepositoryImpl) CreateJob(ctx context.Context, keyword, city string, province *string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scraping_jobs (id, keyword, city, province, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, keyword, city, province, JobStatusPending, now)
	if err != nil {
		return "", fmt.Errorf("failed to create scraping job: %w", err)
	}

	return id, nil
}

func (r *JobRepositoryImpl) GetJob(ctx context.Context, id string) (*ScrapingJob, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM scraping_jobs WHERE id = ?`, id)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scraping job: %w", err)
	}
	return job, nil
}

func (r *JobRepositoryImpl) ListJobs(ctx context.Context, limit int) ([]ScrapingJob, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM scraping_jobs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scraping jobs: %w", err)
	}
	defer rows.Close()

	var jobs []ScrapingJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}

	return jobs, nil
}

// MarkJobRunning transitions a pending job to running. Terminal states are
// final, so the transition is guarded in SQL.
func (r *JobRepositoryImpl) MarkJobRunning(ctx context.Context, id string) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `
		UPDATE scraping_jobs
		SET status = ?, started_at = ?
		WHERE id = ? AND status = ?
	`, JobStatusRunning, now, id, JobStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}
	return checkTransition(result, id)
}

func (r *JobRepositoryImpl) MarkJobCompleted(ctx context.Context, id string, leadsFound int) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `
		UPDATE scraping_jobs
		SET status = ?, leads_found = ?, completed_at = ?
		WHERE id = ? AND status = ?
	`, JobStatusCompleted, leadsFound, now, id, JobStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	return checkTransition(result, id)
}

func (r *JobRepositoryImpl) MarkJobFailed(ctx context.Context, id string, reason string) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `
		UPDATE scraping_jobs
		SET status = ?, error_message = ?, completed_at = ?
		WHERE id = ? AND status IN (?, ?)
	`, JobStatusFailed, reason, now, id, JobStatusPending, JobStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return checkTransition(result, id)
}

func checkTransition(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invalid status transition for job %s", id)
	}
	return nil
}

func scanJob(row rowScanner) (*ScrapingJob, error) {
	var job ScrapingJob
	err := row.Scan(
		&job.ID, &job.Keyword, &job.City, &job.Province, &job.Status,
		&job.LeadsFound, &job.ErrorMessage,
		&job.CreatedAt, &job.StartedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
