package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/novaninjas/jobsync/internal/model"
	"github.com/novaninjas/jobsync/internal/normalize"
)

const (
	jsearchBaseURL = "https://jsearch.p.rapidapi.com/search"
	jsearchHost    = "jsearch.p.rapidapi.com"
)

// jsearchJob represents a single job in the JSearch (RapidAPI) response.
type jsearchJob struct {
	JobID              string   `json:"job_id"`
	JobTitle           string   `json:"job_title"`
	EmployerName       string   `json:"employer_name"`
	JobCity            string   `json:"job_city"`
	JobState           string   `json:"job_state"`
	JobCountry         string   `json:"job_country"`
	JobDescription     string   `json:"job_description"`
	JobApplyLink       string   `json:"job_apply_link"`
	JobGoogleLink      string   `json:"job_google_link"`
	JobMinSalary       *float64 `json:"job_min_salary"`
	JobMaxSalary       *float64 `json:"job_max_salary"`
	JobSalaryPeriod    string   `json:"job_salary_period"`
	JobPostedAtUTC     string   `json:"job_posted_at_datetime_utc"`
	JobEmploymentType  string   `json:"job_employment_type"`
	JobIsRemote        bool     `json:"job_is_remote"`
}

// jsearchResponse is the top-level JSearch response envelope.
type jsearchResponse struct {
	Data []jsearchJob `json:"data"`
}

// JSearchConfig holds the RapidAPI credential and fetch limits.
type JSearchConfig struct {
	APIKey        string
	PagesPerQuery int
	DatePosted    string // "all", "today", "3days", ... (provider filter)
}

// JSearchAdapter fetches jobs from the JSearch aggregator on RapidAPI, which
// fronts Indeed, LinkedIn, Glassdoor and others.
type JSearchAdapter struct {
	cfg    JSearchConfig
	client *http.Client
}

// NewJSearchAdapter creates an adapter for the JSearch API.
func NewJSearchAdapter(cfg JSearchConfig, client *http.Client) *JSearchAdapter {
	return &JSearchAdapter{cfg: cfg, client: client}
}

func (a *JSearchAdapter) Name() string { return model.SourceJSearch }

// FetchPage retrieves one page (1-indexed) of results for the query.
// Non-USA records are dropped before normalization.
func (a *JSearchAdapter) FetchPage(ctx context.Context, query model.SearchQuery, page int) ([]model.Job, error) {
	if a.cfg.APIKey == "" {
		return nil, fmt.Errorf("jsearch: %w", model.ErrCredentialsMissing)
	}

	location := query.Location
	if location == "" {
		location = "United States"
	}
	datePosted := a.cfg.DatePosted
	if datePosted == "" {
		datePosted = "all"
	}

	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s in %s", query.Keyword, location))
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", "1")
	params.Set("date_posted", datePosted)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jsearchBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("jsearch fetch page %d: %w", page, err)
	}
	req.Header.Set("X-RapidAPI-Key", a.cfg.APIKey)
	req.Header.Set("X-RapidAPI-Host", jsearchHost)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("jsearch fetch page %d: unexpected status %d", page, resp.StatusCode),
		}
	}

	var jr jsearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return nil, fmt.Errorf("jsearch fetch page %d: %w", page, err)
	}

	jobs := make([]model.Job, 0, len(jr.Data))
	for _, raw := range jr.Data {
		if !jsearchLooksUSA(raw) {
			continue
		}
		jobs = append(jobs, convertJSearchJob(raw))
	}
	return jobs, nil
}

// Fetch runs PagesPerQuery pages for the query, stopping early when a page
// comes back empty. Jobs gathered before a mid-run error are returned with it.
func (a *JSearchAdapter) Fetch(ctx context.Context, query model.SearchQuery) ([]model.Job, error) {
	pages := a.cfg.PagesPerQuery
	if pages <= 0 {
		pages = 1
	}

	var all []model.Job
	for page := 1; page <= pages; page++ {
		jobs, err := a.FetchPage(ctx, query, page)
		if err != nil {
			return all, err
		}
		if len(jobs) == 0 {
			break
		}
		all = append(all, jobs...)
	}
	return all, nil
}

// jsearchLooksUSA is a coarse pre-filter on the provider's own geo fields;
// the real acceptance decision still belongs to the geo filter downstream.
func jsearchLooksUSA(raw jsearchJob) bool {
	blob := strings.ToLower(raw.JobCity + " " + raw.JobState + " " + raw.JobCountry)
	for _, token := range []string{"united states", "usa", "us"} {
		if strings.Contains(blob, token) {
			return true
		}
	}
	return false
}

// convertJSearchJob maps a raw JSearch record into the unified Job model.
func convertJSearchJob(raw jsearchJob) model.Job {
	var parts []string
	if raw.JobCity != "" {
		parts = append(parts, raw.JobCity)
	}
	if raw.JobState != "" {
		parts = append(parts, raw.JobState)
	}
	location := strings.Join(parts, ", ")
	if location == "" {
		location = "United States"
	}

	jobURL := raw.JobApplyLink
	if jobURL == "" {
		jobURL = raw.JobGoogleLink
	}

	var salaryMin, salaryMax int64
	if raw.JobMinSalary != nil {
		salaryMin = int64(*raw.JobMinSalary)
	}
	if raw.JobMaxSalary != nil {
		salaryMax = int64(*raw.JobMaxSalary)
	}

	description := normalize.StripHTML(raw.JobDescription)

	workType := raw.JobEmploymentType
	if raw.JobIsRemote {
		workType = "Remote"
	}
	if workType == "" {
		workType = "Full-time"
	}

	return model.Job{
		SourceID:    "jsearch_" + raw.JobID,
		Source:      model.SourceJSearch,
		Title:       normalize.Title(raw.JobTitle),
		Company:     normalize.Company(raw.EmployerName),
		Location:    location,
		Description: description,
		URL:         jobURL,
		SalaryText:  normalize.FormatSalary(salaryMin, salaryMax, raw.JobSalaryPeriod),
		SalaryMin:   salaryMin,
		SalaryMax:   salaryMax,
		WorkType:    workType,
		Sponsorship: "Unknown",
		PostedAt:    parseTimestamp(raw.JobPostedAtUTC),
	}
}
