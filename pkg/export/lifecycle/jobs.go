package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"humboldt-hq/biotica/pkg/observation"
)

// ErrNotFound is returned when a job ID is unknown or already reclaimed.
var ErrNotFound = errors.New("export job not found")

// jobsSchema holds the job index table.
const jobsSchema = `
CREATE TABLE IF NOT EXISTS export_jobs (
    id TEXT PRIMARY KEY,
    format TEXT NOT NULL,
    path TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    row_count INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_export_jobs_created_at ON export_jobs(created_at);
`

// JobIndex records export jobs in a small SQLite database next to the
// artifacts, so downloads resolve job IDs instead of trusting file names.
// The pure-Go driver keeps the index free of any cgo requirement.
type JobIndex struct {
	db *sql.DB
}

// NewJobIndex opens (or creates) the index database.
func NewJobIndex(path string) (*JobIndex, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open job index %q: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure job index: %w", err)
	}
	if _, err := db.Exec(jobsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create job index schema: %w", err)
	}

	return &JobIndex{db: db}, nil
}

// Save records one job.
func (j *JobIndex) Save(ctx context.Context, job *observation.ExportJob) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO export_jobs (id, format, path, size_bytes, row_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID, string(job.Format), job.Path, job.SizeBytes, job.RowCount, job.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save export job %s: %w", job.ID, err)
	}
	return nil
}

// Get resolves a job ID. Returns ErrNotFound for unknown IDs.
func (j *JobIndex) Get(ctx context.Context, id string) (*observation.ExportJob, error) {
	var job observation.ExportJob
	var format string
	var createdAt time.Time

	err := j.db.QueryRowContext(ctx, `
		SELECT id, format, path, size_bytes, row_count, created_at
		FROM export_jobs WHERE id = ?`, id).
		Scan(&job.ID, &format, &job.Path, &job.SizeBytes, &job.RowCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get export job %s: %w", id, err)
	}

	job.Format = observation.Format(format)
	job.CreatedAt = createdAt.UTC()
	return &job, nil
}

// StaleJobs lists the ID and path of every job created before the cutoff.
// The caller decides which of them to Delete; a job row must outlive its
// artifact, never the other way around.
func (j *JobIndex) StaleJobs(ctx context.Context, cutoff time.Time) ([]observation.ExportJob, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, path FROM export_jobs WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("list stale export jobs: %w", err)
	}
	defer rows.Close()

	jobs := []observation.ExportJob{}
	for rows.Next() {
		var job observation.ExportJob
		if err := rows.Scan(&job.ID, &job.Path); err != nil {
			return nil, fmt.Errorf("list stale export jobs: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stale export jobs: %w", err)
	}
	return jobs, nil
}

// Delete removes the given job rows and returns the number removed.
func (j *JobIndex) Delete(ctx context.Context, ids []string) (int64, error) {
	var count int64
	for _, id := range ids {
		result, err := j.db.ExecContext(ctx,
			`DELETE FROM export_jobs WHERE id = ?`, id)
		if err != nil {
			return count, fmt.Errorf("delete export job %s: %w", id, err)
		}
		if n, err := result.RowsAffected(); err == nil {
			count += n
		}
	}
	return count, nil
}

// Close closes the index database.
func (j *JobIndex) Close() error {
	return j.db.Close()
}
