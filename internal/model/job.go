package model

import (
	"context"
	"time"
)

// Source tags. A job's SourceID is always prefixed with its tag, so the
// dedup key stays unique across providers even when native IDs collide.
const (
	SourceAdzuna  = "adzuna"
	SourceJSearch = "jsearch"
	SourceUSAJobs = "usajobs"
	SourceRSS     = "rss"
)

// Job is the unified representation of a posting from any provider.
type Job struct {
	SourceID    string // dedup key: "<source>_<provider native id>"
	Source      string // which adapter produced it
	Title       string
	Company     string
	Location    string // normalized display string
	Description string // plain text, HTML stripped
	URL         string // apply/view link
	SalaryText  string // human-readable range, may be empty
	SalaryMin   int64  // 0 when the provider gave no lower bound
	SalaryMax   int64  // 0 when the provider gave no upper bound
	WorkType    string // Remote / Hybrid / On-site / employment type
	Sponsorship string // free text, "Unknown" when the provider is silent
	Categories  []string
	PostedAt    *time.Time // source-reported, nullable (not all APIs provide it)
	CreatedAt   time.Time  // ingestion time, set once by the store
}

// SearchQuery is the input to a keyword-driven adapter fetch.
type SearchQuery struct {
	Keyword  string
	Location string
}

// SyncStatus values for the Status field.
const (
	SyncSuccess  = "success"
	SyncFailed   = "failed"
	SyncNeverRun = "never_run"
)

// SyncStatus is the per-source record of the most recent sync cycle.
type SyncStatus struct {
	Source    string
	LastSync  time.Time
	JobsAdded int
	Status    string // success / failed / never_run
	Error     string
}

// JobSource fetches postings from one external provider. Fetch returns
// normalized jobs; feed-based sources ignore the query.
type JobSource interface {
	Name() string
	Fetch(ctx context.Context, query SearchQuery) ([]Job, error)
}

// JobStore is the dedup store the aggregation cycle writes through.
type JobStore interface {
	// UpsertJob inserts or overwrites the job keyed by SourceID.
	// Returns true if the job was newly inserted, false if it updated an
	// existing record.
	UpsertJob(ctx context.Context, job Job) (bool, error)
	// DeleteOlderThan removes jobs ingested before cutoff (and jobs with no
	// ingestion timestamp at all) and returns the number removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	// UpsertSyncStatus records the outcome of a source's sync cycle.
	UpsertSyncStatus(ctx context.Context, status SyncStatus) error
}
