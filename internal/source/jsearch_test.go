package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/novaninjas/jobsync/internal/model"
)

func TestJSearchFetchPage_Success(t *testing.T) {
	payload := `{
		"data": [
			{
				"job_id": "abc123",
				"job_title": "Data Scientist",
				"employer_name": "Initech",
				"job_city": "Denver",
				"job_state": "CO",
				"job_country": "US",
				"job_description": "Visa sponsorship available",
				"job_apply_link": "https://jobs.example/abc123",
				"job_min_salary": 140000,
				"job_max_salary": 180000,
				"job_salary_period": "YEAR",
				"job_posted_at_datetime_utc": "2026-08-29T08:00:00Z",
				"job_employment_type": "Full-time"
			},
			{
				"job_id": "def456",
				"job_title": "Backend Engineer",
				"employer_name": "Offshore Ltd",
				"job_city": "Bangalore",
				"job_state": "",
				"job_country": "IN",
				"job_description": "Onsite role"
			},
			{
				"job_id": "ghi789",
				"job_title": "Platform Engineer",
				"employer_name": "Hooli",
				"job_city": "",
				"job_state": "",
				"job_country": "United States",
				"job_description": "Anywhere in the country",
				"job_is_remote": true
			}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-RapidAPI-Key"); got != "rapid" {
			t.Errorf("X-RapidAPI-Key = %q, want rapid", got)
		}
		if got := r.URL.Query().Get("query"); got != "data scientist in United States" {
			t.Errorf("query param = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewJSearchAdapter(JSearchConfig{APIKey: "rapid"}, testClient(srv))
	jobs, err := a.FetchPage(context.Background(), model.SearchQuery{Keyword: "data scientist"}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The Bangalore record is pre-filtered out.
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs after country pre-filter, got %d", len(jobs))
	}

	j := jobs[0]
	if j.SourceID != "jsearch_abc123" {
		t.Errorf("SourceID = %q", j.SourceID)
	}
	if j.Location != "Denver, CO" {
		t.Errorf("Location = %q, want Denver, CO", j.Location)
	}
	if j.SalaryText != "$140,000 - $180,000/year" {
		t.Errorf("SalaryText = %q", j.SalaryText)
	}
	if j.WorkType != "Full-time" {
		t.Errorf("WorkType = %q, want Full-time", j.WorkType)
	}
	if j.PostedAt == nil {
		t.Error("expected PostedAt to be set")
	}

	j = jobs[1]
	if j.Location != "United States" {
		t.Errorf("Location = %q, want United States fallback", j.Location)
	}
	if j.WorkType != "Remote" {
		t.Errorf("WorkType = %q, want Remote via job_is_remote", j.WorkType)
	}
	if j.SalaryText != "" {
		t.Errorf("SalaryText = %q, want empty for null salary", j.SalaryText)
	}
}

func TestJSearchFetchPage_CredentialsMissing(t *testing.T) {
	a := NewJSearchAdapter(JSearchConfig{}, http.DefaultClient)
	_, err := a.FetchPage(context.Background(), model.SearchQuery{Keyword: "x"}, 1)
	if !errors.Is(err, model.ErrCredentialsMissing) {
		t.Fatalf("expected ErrCredentialsMissing, got %v", err)
	}
}

func TestJSearchFetchPage_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewJSearchAdapter(JSearchConfig{APIKey: "rapid"}, testClient(srv))
	_, err := a.FetchPage(context.Background(), model.SearchQuery{Keyword: "x"}, 1)

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", httpErr.StatusCode)
	}
	if httpErr.RetryAfter.Seconds() != 60 {
		t.Errorf("RetryAfter = %v, want 60s", httpErr.RetryAfter)
	}
}

func TestJSearchFetch_PartialResultsOnError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			w.Write([]byte(`{"data": [{"job_id": "1", "job_title": "A", "job_country": "US"}]}`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewJSearchAdapter(JSearchConfig{APIKey: "rapid", PagesPerQuery: 3}, testClient(srv))
	jobs, err := a.Fetch(context.Background(), model.SearchQuery{Keyword: "x"})
	if err == nil {
		t.Fatal("expected error from second page")
	}
	if len(jobs) != 1 {
		t.Fatalf("expected the first page's job to survive, got %d jobs", len(jobs))
	}
}
