package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/novaninjas/jobsync/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testJob(sourceID string) model.Job {
	return model.Job{
		SourceID:    sourceID,
		Source:      model.SourceAdzuna,
		Title:       "Software Engineer",
		Company:     "Acme",
		Location:    "Austin, TX",
		Description: "Build things",
		URL:         "https://jobs.example/" + sourceID,
		SalaryText:  "$120,000 - $160,000",
		SalaryMin:   120000,
		SalaryMax:   160000,
		WorkType:    "Remote",
		Sponsorship: "Unknown",
		Categories:  []string{"high_paying", "startup"},
	}
}

func TestUpsertJobAddedThenUpdated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.UpsertJob(ctx, testJob("adzuna_1"))
	if err != nil {
		t.Fatalf("first UpsertJob: %v", err)
	}
	if !added {
		t.Error("expected first upsert to report added")
	}

	updated := testJob("adzuna_1")
	updated.Title = "Senior Software Engineer"
	added, err = s.UpsertJob(ctx, updated)
	if err != nil {
		t.Fatalf("second UpsertJob: %v", err)
	}
	if added {
		t.Error("expected second upsert to report updated, not added")
	}

	jobs, err := s.ListJobs(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job after upsert of same id, got %d", len(jobs))
	}
	if jobs[0].Title != "Senior Software Engineer" {
		t.Errorf("Title = %q, want the updated value", jobs[0].Title)
	}
}

func TestUpsertJobPreservesCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	past := time.Now().UTC().Add(-10 * time.Hour)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO jobs (source_id, source, title, company, created_at) VALUES (?, ?, ?, ?, ?)",
		"adzuna_old", model.SourceAdzuna, "Engineer", "Acme", past)
	if err != nil {
		t.Fatalf("seeding job: %v", err)
	}

	if _, err := s.UpsertJob(ctx, testJob("adzuna_old")); err != nil {
		t.Fatalf("UpsertJob: %v", err)
	}

	jobs, err := s.ListJobs(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].CreatedAt.After(past.Add(time.Minute)) {
		t.Errorf("CreatedAt = %v, want the original ingestion time preserved", jobs[0].CreatedAt)
	}
}

func TestListJobsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	posted := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	job := testJob("jsearch_7")
	job.Source = model.SourceJSearch
	job.PostedAt = &posted
	if _, err := s.UpsertJob(ctx, job); err != nil {
		t.Fatalf("UpsertJob: %v", err)
	}
	if _, err := s.UpsertJob(ctx, testJob("adzuna_7")); err != nil {
		t.Fatalf("UpsertJob: %v", err)
	}

	jobs, err := s.ListJobs(ctx, model.SourceJSearch, 0)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 jsearch job, got %d", len(jobs))
	}

	got := jobs[0]
	if got.SourceID != "jsearch_7" || got.Company != "Acme" || got.SalaryMin != 120000 {
		t.Errorf("round-tripped job = %+v", got)
	}
	if len(got.Categories) != 2 || got.Categories[0] != "high_paying" || got.Categories[1] != "startup" {
		t.Errorf("Categories = %v", got.Categories)
	}
	if got.PostedAt == nil || !got.PostedAt.Equal(posted) {
		t.Errorf("PostedAt = %v, want %v", got.PostedAt, posted)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set on ingestion")
	}
}

func TestDeleteOlderThan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-96 * time.Hour)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO jobs (source_id, source, title, company, created_at) VALUES (?, ?, ?, ?, ?)",
		"rss_old", model.SourceRSS, "Stale", "Acme", old)
	if err != nil {
		t.Fatalf("seeding old job: %v", err)
	}
	// A row with no ingestion timestamp at all is treated as stale.
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO jobs (source_id, source, title, company, created_at) VALUES (?, ?, ?, ?, NULL)",
		"rss_null", model.SourceRSS, "Undated", "Acme")
	if err != nil {
		t.Fatalf("seeding null-timestamp job: %v", err)
	}
	if _, err := s.UpsertJob(ctx, testJob("adzuna_fresh")); err != nil {
		t.Fatalf("UpsertJob fresh: %v", err)
	}

	deleted, err := s.DeleteOlderThan(ctx, time.Now().UTC().Add(-72*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2 (stale + undated)", deleted)
	}

	count, err := s.CountJobs(ctx)
	if err != nil {
		t.Fatalf("CountJobs: %v", err)
	}
	if count != 1 {
		t.Errorf("remaining jobs = %d, want the fresh one only", count)
	}
}

func TestDeleteAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.UpsertJob(ctx, testJob("adzuna_1")); err != nil {
		t.Fatalf("UpsertJob: %v", err)
	}
	if _, err := s.UpsertJob(ctx, testJob("adzuna_2")); err != nil {
		t.Fatalf("UpsertJob: %v", err)
	}

	deleted, err := s.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	count, err := s.CountJobs(ctx)
	if err != nil {
		t.Fatalf("CountJobs: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestSyncStatusUpsertReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := model.SyncStatus{
		Source:   model.SourceAdzuna,
		LastSync: time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC),
		Status:   model.SyncFailed,
		Error:    "unexpected status 503",
	}
	if err := s.UpsertSyncStatus(ctx, first); err != nil {
		t.Fatalf("first UpsertSyncStatus: %v", err)
	}

	second := model.SyncStatus{
		Source:    model.SourceAdzuna,
		LastSync:  time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC),
		JobsAdded: 14,
		Status:    model.SyncSuccess,
	}
	if err := s.UpsertSyncStatus(ctx, second); err != nil {
		t.Fatalf("second UpsertSyncStatus: %v", err)
	}

	statuses, err := s.ListSyncStatus(ctx)
	if err != nil {
		t.Fatalf("ListSyncStatus: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status record, got %d", len(statuses))
	}
	st := statuses[0]
	if st.Status != model.SyncSuccess || st.JobsAdded != 14 {
		t.Errorf("status = %+v, want the replacement record", st)
	}
	if st.Error != "" {
		t.Errorf("Error = %q, want cleared", st.Error)
	}
}

func TestCountBySource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"adzuna_1", "adzuna_2"} {
		if _, err := s.UpsertJob(ctx, testJob(id)); err != nil {
			t.Fatalf("UpsertJob %s: %v", id, err)
		}
	}
	rssJob := testJob("rss_1")
	rssJob.Source = model.SourceRSS
	if _, err := s.UpsertJob(ctx, rssJob); err != nil {
		t.Fatalf("UpsertJob rss: %v", err)
	}

	counts, err := s.CountBySource(ctx)
	if err != nil {
		t.Fatalf("CountBySource: %v", err)
	}
	if counts[model.SourceAdzuna] != 2 || counts[model.SourceRSS] != 1 {
		t.Errorf("counts = %v", counts)
	}
}
