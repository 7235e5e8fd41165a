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

const usajobsBaseURL = "https://data.usajobs.gov/api/search"

// USAJobs allows up to 500 results per page.
const usajobsMaxPerPage = 500

// usajobsItem is one search result; the descriptor carries the posting.
type usajobsItem struct {
	MatchedObjectID         string            `json:"MatchedObjectId"`
	MatchedObjectDescriptor usajobsDescriptor `json:"MatchedObjectDescriptor"`
}

type usajobsDescriptor struct {
	PositionTitle        string               `json:"PositionTitle"`
	OrganizationName     string               `json:"OrganizationName"`
	PositionURI          string               `json:"PositionURI"`
	PositionLocation     []usajobsLocation    `json:"PositionLocation"`
	PositionRemuneration []usajobsPayRange    `json:"PositionRemuneration"`
	PublicationStartDate string               `json:"PublicationStartDate"`
	UserArea             usajobsUserArea      `json:"UserArea"`
}

type usajobsLocation struct {
	CityName  string `json:"CityName"`
	StateCode string `json:"StateCode"`
}

// Remuneration bounds arrive as decimal strings, e.g. "112015.0".
type usajobsPayRange struct {
	MinimumRange string `json:"MinimumRange"`
	MaximumRange string `json:"MaximumRange"`
}

type usajobsUserArea struct {
	Details usajobsDetails `json:"Details"`
}

type usajobsDetails struct {
	JobSummary string `json:"JobSummary"`
}

// usajobsResponse is the top-level search response.
type usajobsResponse struct {
	SearchResult struct {
		SearchResultCount int           `json:"SearchResultCount"`
		SearchResultItems []usajobsItem `json:"SearchResultItems"`
	} `json:"SearchResult"`
}

// USAJobsConfig holds credentials and fetch limits for the USAJobs adapter.
// The API key doubles as the User-Agent unless one is set explicitly.
type USAJobsConfig struct {
	APIKey         string
	UserAgent      string
	ResultsPerPage int
	MaxResults     int
}

// USAJobsAdapter fetches federal postings from the USAJobs.gov search API.
type USAJobsAdapter struct {
	cfg    USAJobsConfig
	client *http.Client
}

// NewUSAJobsAdapter creates an adapter for the USAJobs.gov API.
func NewUSAJobsAdapter(cfg USAJobsConfig, client *http.Client) *USAJobsAdapter {
	return &USAJobsAdapter{cfg: cfg, client: client}
}

func (a *USAJobsAdapter) Name() string { return model.SourceUSAJobs }

// FetchPage retrieves one page (1-indexed) of federal postings.
func (a *USAJobsAdapter) FetchPage(ctx context.Context, query model.SearchQuery, page int) ([]model.Job, error) {
	if a.cfg.APIKey == "" {
		return nil, fmt.Errorf("usajobs: %w", model.ErrCredentialsMissing)
	}

	perPage := a.cfg.ResultsPerPage
	if perPage <= 0 || perPage > usajobsMaxPerPage {
		perPage = usajobsMaxPerPage
	}

	params := url.Values{}
	params.Set("ResultsPerPage", strconv.Itoa(perPage))
	params.Set("Page", strconv.Itoa(page))
	if query.Keyword != "" {
		params.Set("Keyword", query.Keyword)
	}
	if query.Location != "" {
		params.Set("LocationName", query.Location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, usajobsBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("usajobs fetch page %d: %w", page, err)
	}
	userAgent := a.cfg.UserAgent
	if userAgent == "" {
		userAgent = a.cfg.APIKey
	}
	req.Header.Set("Authorization-Key", a.cfg.APIKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("usajobs fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("usajobs fetch page %d: unexpected status %d", page, resp.StatusCode),
		}
	}

	var ur usajobsResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, fmt.Errorf("usajobs fetch page %d: %w", page, err)
	}

	jobs := make([]model.Job, 0, len(ur.SearchResult.SearchResultItems))
	for _, item := range ur.SearchResult.SearchResultItems {
		jobs = append(jobs, convertUSAJobsItem(item))
	}
	return jobs, nil
}

// Fetch paginates until the result count is exhausted or MaxResults is hit.
// Jobs gathered before a mid-run error are returned alongside it.
func (a *USAJobsAdapter) Fetch(ctx context.Context, query model.SearchQuery) ([]model.Job, error) {
	maxResults := a.cfg.MaxResults
	if maxResults <= 0 {
		maxResults = usajobsMaxPerPage
	}

	var all []model.Job
	for page := 1; len(all) < maxResults; page++ {
		jobs, err := a.FetchPage(ctx, query, page)
		if err != nil {
			return all, err
		}
		if len(jobs) == 0 {
			break
		}
		all = append(all, jobs...)
	}
	if len(all) > maxResults {
		all = all[:maxResults]
	}
	return all, nil
}

// convertUSAJobsItem maps a raw USAJobs search item into the unified Job model.
func convertUSAJobsItem(item usajobsItem) model.Job {
	d := item.MatchedObjectDescriptor

	location := "USA"
	if len(d.PositionLocation) > 0 {
		first := d.PositionLocation[0]
		switch {
		case first.CityName != "" && first.StateCode != "":
			location = first.CityName + ", " + first.StateCode
		case first.StateCode != "":
			location = first.StateCode
		case first.CityName != "":
			location = first.CityName
		}
	}

	var salaryMin, salaryMax int64
	if len(d.PositionRemuneration) > 0 {
		salaryMin = parseDollars(d.PositionRemuneration[0].MinimumRange)
		salaryMax = parseDollars(d.PositionRemuneration[0].MaximumRange)
	}

	company := normalize.CleanText(d.OrganizationName)
	if company == "" {
		company = "US Federal Government"
	}

	description := normalize.StripHTML(d.UserArea.Details.JobSummary)

	nativeID := item.MatchedObjectID
	if nativeID == "" {
		nativeID = d.PositionURI
	}

	return model.Job{
		SourceID:    "usajobs_" + nativeID,
		Source:      model.SourceUSAJobs,
		Title:       normalize.Title(d.PositionTitle),
		Company:     company,
		Location:    location,
		Description: description,
		URL:         d.PositionURI,
		SalaryText:  normalize.FormatSalary(salaryMin, salaryMax, "year"),
		SalaryMin:   salaryMin,
		SalaryMax:   salaryMax,
		WorkType:    normalize.DetectWorkType(description),
		Sponsorship: "N/A", // federal positions require US work eligibility
		PostedAt:    parseTimestamp(d.PublicationStartDate),
	}
}

// parseDollars converts a remuneration bound like "112015.0" to whole dollars.
func parseDollars(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}
