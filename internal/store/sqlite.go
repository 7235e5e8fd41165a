package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/novaninjas/jobsync/internal/model"
)

// SQLiteStore persists jobs and per-source sync status in a SQLite database.
// Jobs are keyed by source_id, so re-ingesting a posting updates it in place.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection serializes writers; concurrent source workers all
	// funnel through here.
	db.SetMaxOpenConns(1)

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			source_id   TEXT PRIMARY KEY,
			source      TEXT NOT NULL,
			title       TEXT NOT NULL,
			company     TEXT NOT NULL,
			location    TEXT,
			description TEXT,
			url         TEXT,
			salary_text TEXT,
			salary_min  INTEGER,
			salary_max  INTEGER,
			work_type   TEXT,
			sponsorship TEXT,
			categories  TEXT,
			posted_at   DATETIME,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_source ON jobs (source)`,
		`CREATE TABLE IF NOT EXISTS sync_status (
			source     TEXT PRIMARY KEY,
			last_sync  DATETIME,
			jobs_added INTEGER DEFAULT 0,
			status     TEXT,
			error      TEXT
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// UpsertJob inserts the job or, when its source_id already exists, overwrites
// the posting fields while keeping the original ingestion timestamp. Returns
// true if the job was newly inserted.
func (s *SQLiteStore) UpsertJob(ctx context.Context, job model.Job) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM jobs WHERE source_id = ?", job.SourceID).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("checking job %s: %w", job.SourceID, err)
	}
	added := err == sql.ErrNoRows

	var postedAt any
	if job.PostedAt != nil {
		postedAt = job.PostedAt.UTC()
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO jobs (
			source_id, source, title, company, location, description, url,
			salary_text, salary_min, salary_max, work_type, sponsorship,
			categories, posted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id) DO UPDATE SET
			source      = excluded.source,
			title       = excluded.title,
			company     = excluded.company,
			location    = excluded.location,
			description = excluded.description,
			url         = excluded.url,
			salary_text = excluded.salary_text,
			salary_min  = excluded.salary_min,
			salary_max  = excluded.salary_max,
			work_type   = excluded.work_type,
			sponsorship = excluded.sponsorship,
			categories  = excluded.categories,
			posted_at   = excluded.posted_at`,
		job.SourceID, job.Source, job.Title, job.Company, job.Location,
		job.Description, job.URL, job.SalaryText, job.SalaryMin, job.SalaryMax,
		job.WorkType, job.Sponsorship, strings.Join(job.Categories, ","), postedAt,
	)
	if err != nil {
		return false, fmt.Errorf("upserting job %s: %w", job.SourceID, err)
	}
	return added, nil
}

// DeleteOlderThan removes jobs ingested before cutoff. Rows whose ingestion
// timestamp is missing entirely are removed too, so malformed records can't
// linger forever. Returns the number of rows deleted.
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM jobs WHERE created_at < ? OR created_at IS NULL", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting jobs older than %s: %w", cutoff.Format(time.RFC3339), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted jobs: %w", err)
	}
	return int(n), nil
}

// DeleteAll empties the jobs table and returns the number of rows removed.
func (s *SQLiteStore) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM jobs")
	if err != nil {
		return 0, fmt.Errorf("deleting all jobs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted jobs: %w", err)
	}
	return int(n), nil
}

// UpsertSyncStatus records the outcome of a source's latest sync cycle,
// replacing any previous record for that source.
func (s *SQLiteStore) UpsertSyncStatus(ctx context.Context, status model.SyncStatus) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO sync_status (
			source, last_sync, jobs_added, status, error
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			last_sync  = excluded.last_sync,
			jobs_added = excluded.jobs_added,
			status     = excluded.status,
			error      = excluded.error`,
		status.Source, status.LastSync.UTC(), status.JobsAdded, status.Status, status.Error,
	)
	if err != nil {
		return fmt.Errorf("upserting sync status for %s: %w", status.Source, err)
	}
	return nil
}

// ListJobs returns jobs ordered newest-first, optionally filtered by source
// and capped at limit (0 = no cap).
func (s *SQLiteStore) ListJobs(ctx context.Context, source string, limit int) ([]model.Job, error) {
	query := `SELECT source_id, source, title, company, location, description,
		url, salary_text, salary_min, salary_max, work_type, sponsorship,
		categories, posted_at, created_at FROM jobs`
	var args []any
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY created_at DESC, source_id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var (
			j          model.Job
			categories sql.NullString
			postedAt   sql.NullTime
			createdAt  sql.NullTime
		)
		if err := rows.Scan(
			&j.SourceID, &j.Source, &j.Title, &j.Company, &j.Location,
			&j.Description, &j.URL, &j.SalaryText, &j.SalaryMin, &j.SalaryMax,
			&j.WorkType, &j.Sponsorship, &categories, &postedAt, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		if categories.Valid && categories.String != "" {
			j.Categories = strings.Split(categories.String, ",")
		}
		if postedAt.Valid {
			t := postedAt.Time
			j.PostedAt = &t
		}
		if createdAt.Valid {
			j.CreatedAt = createdAt.Time
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

// CountJobs returns the total number of stored jobs.
func (s *SQLiteStore) CountJobs(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting jobs: %w", err)
	}
	return count, nil
}

// CountBySource returns per-source job counts.
func (s *SQLiteStore) CountBySource(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT source, COUNT(*) FROM jobs GROUP BY source")
	if err != nil {
		return nil, fmt.Errorf("counting jobs by source: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("scanning source count: %w", err)
		}
		counts[source] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counting jobs by source: %w", err)
	}
	return counts, nil
}

// ListSyncStatus returns the most recent sync record per source, ordered by
// source name.
func (s *SQLiteStore) ListSyncStatus(ctx context.Context) ([]model.SyncStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT source, last_sync, jobs_added, status, error FROM sync_status ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("listing sync status: %w", err)
	}
	defer rows.Close()

	var statuses []model.SyncStatus
	for rows.Next() {
		var (
			st       model.SyncStatus
			lastSync sql.NullTime
			errText  sql.NullString
		)
		if err := rows.Scan(&st.Source, &lastSync, &st.JobsAdded, &st.Status, &errText); err != nil {
			return nil, fmt.Errorf("scanning sync status row: %w", err)
		}
		if lastSync.Valid {
			st.LastSync = lastSync.Time
		}
		if errText.Valid {
			st.Error = errText.String
		}
		statuses = append(statuses, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing sync status: %w", err)
	}
	return statuses, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
