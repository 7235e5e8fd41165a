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

const adzunaBaseURL = "https://api.adzuna.com/v1/api/jobs/us/search"

// Adzuna caps results_per_page at 50.
const adzunaMaxPerPage = 50

// adzunaJob represents a single job in the Adzuna API response.
type adzunaJob struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Company      adzunaCompany  `json:"company"`
	Location     adzunaLocation `json:"location"`
	Description  string         `json:"description"`
	RedirectURL  string         `json:"redirect_url"`
	SalaryMin    float64        `json:"salary_min"`
	SalaryMax    float64        `json:"salary_max"`
	Created      string         `json:"created"`
	ContractType string         `json:"contract_type"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string   `json:"display_name"`
	Area        []string `json:"area"`
}

// adzunaResponse is the top-level Adzuna search response.
type adzunaResponse struct {
	Results []adzunaJob `json:"results"`
	Count   int         `json:"count"`
}

// AdzunaConfig holds credentials and fetch limits for the Adzuna adapter.
type AdzunaConfig struct {
	AppID          string
	AppKey         string
	MaxPages       int
	ResultsPerPage int
	MaxDaysOld     int // 0 disables the provider-side age filter
}

// AdzunaAdapter fetches jobs from the Adzuna search API (US country slice).
type AdzunaAdapter struct {
	cfg    AdzunaConfig
	client *http.Client
}

// NewAdzunaAdapter creates an adapter for the Adzuna API.
func NewAdzunaAdapter(cfg AdzunaConfig, client *http.Client) *AdzunaAdapter {
	return &AdzunaAdapter{cfg: cfg, client: client}
}

func (a *AdzunaAdapter) Name() string { return model.SourceAdzuna }

// FetchPage retrieves one page (1-indexed) of results for the query.
func (a *AdzunaAdapter) FetchPage(ctx context.Context, query model.SearchQuery, page int) ([]model.Job, error) {
	if a.cfg.AppID == "" || a.cfg.AppKey == "" {
		return nil, fmt.Errorf("adzuna: %w", model.ErrCredentialsMissing)
	}

	perPage := a.cfg.ResultsPerPage
	if perPage <= 0 || perPage > adzunaMaxPerPage {
		perPage = adzunaMaxPerPage
	}

	params := url.Values{}
	params.Set("app_id", a.cfg.AppID)
	params.Set("app_key", a.cfg.AppKey)
	params.Set("results_per_page", strconv.Itoa(perPage))
	params.Set("sort_by", "date")
	if query.Keyword != "" {
		params.Set("what", query.Keyword)
	}
	if query.Location != "" {
		params.Set("where", query.Location)
	}
	if a.cfg.MaxDaysOld > 0 {
		params.Set("max_days_old", strconv.Itoa(a.cfg.MaxDaysOld))
	}

	reqURL := fmt.Sprintf("%s/%d?%s", adzunaBaseURL, page, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("adzuna fetch page %d: %w", page, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("adzuna fetch page %d: unexpected status %d", page, resp.StatusCode),
		}
	}

	var ar adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("adzuna fetch page %d: %w", page, err)
	}

	jobs := make([]model.Job, 0, len(ar.Results))
	for _, raw := range ar.Results {
		jobs = append(jobs, convertAdzunaJob(raw))
	}
	return jobs, nil
}

// Fetch paginates from page 1 until the source runs dry or MaxPages is hit.
// On a mid-run error the jobs gathered so far are returned alongside it.
func (a *AdzunaAdapter) Fetch(ctx context.Context, query model.SearchQuery) ([]model.Job, error) {
	maxPages := a.cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	var all []model.Job
	for page := 1; page <= maxPages; page++ {
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

// convertAdzunaJob maps a raw Adzuna record into the unified Job model.
func convertAdzunaJob(raw adzunaJob) model.Job {
	location := normalize.CleanText(raw.Location.DisplayName)

	// Adzuna's area array is ["US", "Illinois", ...]. When the display string
	// lacks a USA token, rescue it so the geo filter can accept the job.
	if areaHasUS(raw.Location.Area) &&
		!strings.Contains(location, "United States") && !strings.Contains(location, "USA") {
		if location == "" {
			location = "United States"
		} else {
			location += ", United States"
		}
	}

	description := normalize.StripHTML(raw.Description)
	salaryMin := int64(raw.SalaryMin)
	salaryMax := int64(raw.SalaryMax)

	workType := raw.ContractType
	if workType == "" {
		workType = normalize.DetectWorkType(description)
	}

	return model.Job{
		SourceID:    "adzuna_" + raw.ID,
		Source:      model.SourceAdzuna,
		Title:       normalize.Title(raw.Title),
		Company:     normalize.Company(raw.Company.DisplayName),
		Location:    location,
		Description: description,
		URL:         raw.RedirectURL,
		SalaryText:  normalize.FormatSalary(salaryMin, salaryMax, ""),
		SalaryMin:   salaryMin,
		SalaryMax:   salaryMax,
		WorkType:    workType,
		Sponsorship: "Unknown",
		PostedAt:    parseTimestamp(raw.Created),
	}
}

func areaHasUS(area []string) bool {
	for _, a := range area {
		if a == "US" {
			return true
		}
	}
	return false
}
