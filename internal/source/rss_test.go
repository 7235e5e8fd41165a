package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/novaninjas/jobsync/internal/model"
)

const sampleFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Remote Jobs</title>
<item>
  <title>Senior Go Engineer at Acme Corp</title>
  <link>https://board.example/jobs/1</link>
  <guid>guid-1</guid>
  <description>&lt;p&gt;Build distributed systems.&lt;/p&gt;</description>
  <pubDate>Fri, 28 Aug 2026 10:00:00 GMT</pubDate>
</item>
<item>
  <title>[Hiring] Hooli: Staff Engineer</title>
  <link>https://board.example/jobs/2</link>
  <description>Platform team.</description>
</item>
<item>
  <title>Untitled posting with no separator</title>
  <link>https://board.example/jobs/3</link>
  <author>jobs@dunder.example (Dunder Mifflin)</author>
  <description>Sales role.</description>
</item>
</channel>
</rss>`

func TestRSSFetchFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("User-Agent = %q, want a browser agent", ua)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleFeedXML))
	}))
	defer srv.Close()

	a := NewRSSAdapter([]Feed{{Name: "TestBoard", URL: srv.URL}}, srv.Client())
	jobs, err := a.FetchFeed(context.Background(), Feed{Name: "TestBoard", URL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}

	j := jobs[0]
	if j.SourceID != "rss_testboard_guid-1" {
		t.Errorf("SourceID = %q, want GUID-based id", j.SourceID)
	}
	if j.Company != "Acme Corp" || j.Title != "Senior Go Engineer" {
		t.Errorf("split = %q / %q", j.Company, j.Title)
	}
	if j.Description != "Build distributed systems." {
		t.Errorf("Description = %q", j.Description)
	}
	if j.Location != "Remote" || j.WorkType != "Remote" {
		t.Errorf("Location/WorkType = %q/%q", j.Location, j.WorkType)
	}
	if j.PostedAt == nil {
		t.Error("expected PostedAt from pubDate")
	}

	j = jobs[1]
	if j.SourceID != "rss_testboard_https://board.example/jobs/2" {
		t.Errorf("SourceID = %q, want link fallback", j.SourceID)
	}
	if j.Company != "Hooli" || j.Title != "Staff Engineer" {
		t.Errorf("split = %q / %q, want bracket tag stripped then colon split", j.Company, j.Title)
	}
	if j.PostedAt != nil {
		t.Errorf("PostedAt = %v, want nil when the entry has no date", j.PostedAt)
	}

	j = jobs[2]
	if j.Company != "Dunder Mifflin" {
		t.Errorf("Company = %q, want author fallback", j.Company)
	}
	if j.Title != "Untitled posting with no separator" {
		t.Errorf("Title = %q", j.Title)
	}
}

func TestRSSFetch_BrokenFeedIsIsolated(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleFeedXML))
	}))
	defer good.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	a := NewRSSAdapter([]Feed{
		{Name: "Broken", URL: broken.URL},
		{Name: "Good", URL: good.URL},
	}, http.DefaultClient)

	jobs, err := a.Fetch(context.Background(), model.SearchQuery{})
	if err == nil {
		t.Fatal("expected joined error for the broken feed")
	}
	if !strings.Contains(err.Error(), "Broken") {
		t.Errorf("error %q should name the broken feed", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected the good feed's 3 jobs despite the broken one, got %d", len(jobs))
	}
}

func TestRSSAdapter_DefaultFeeds(t *testing.T) {
	a := NewRSSAdapter(nil, http.DefaultClient)
	if len(a.feeds) != len(DefaultFeeds) {
		t.Fatalf("expected default feed set, got %d feeds", len(a.feeds))
	}
}
