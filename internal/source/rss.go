package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/novaninjas/jobsync/internal/model"
	"github.com/novaninjas/jobsync/internal/normalize"
)

// Some remote-job boards block default Go user agents; present as a browser,
// the way the feeds expect.
const feedUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Feed identifies one RSS/Atom feed to poll.
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// DefaultFeeds is the standard remote-job feed set.
var DefaultFeeds = []Feed{
	{Name: "RemoteOK", URL: "https://remoteok.com/remote-jobs.rss"},
	{Name: "Remotive", URL: "https://remotive.com/remote-jobs/feed"},
	{Name: "WWR_All", URL: "https://weworkremotely.com/remote-jobs.rss"},
	{Name: "WWR_Programming", URL: "https://weworkremotely.com/categories/remote-programming-jobs.rss"},
	{Name: "WWR_Design", URL: "https://weworkremotely.com/categories/remote-design-jobs.rss"},
	{Name: "WWR_Marketing", URL: "https://weworkremotely.com/categories/remote-sales-and-marketing-jobs.rss"},
	{Name: "WWR_Product", URL: "https://weworkremotely.com/categories/remote-product-jobs.rss"},
	{Name: "WWR_Support", URL: "https://weworkremotely.com/categories/remote-customer-support-jobs.rss"},
	{Name: "WWR_Management", URL: "https://weworkremotely.com/categories/remote-management-and-finance-jobs.rss"},
	{Name: "WWR_DevOps", URL: "https://weworkremotely.com/categories/remote-devops-sysadmin-jobs.rss"},
	{Name: "WWR_Other", URL: "https://weworkremotely.com/categories/all-other-remote-jobs.rss"},
}

// RSSAdapter fetches jobs from a set of remote-job RSS feeds. Feeds need no
// credentials and carry no pagination; Fetch ignores the query.
type RSSAdapter struct {
	feeds  []Feed
	client *http.Client
	parser *gofeed.Parser
}

// NewRSSAdapter creates an adapter over the given feeds (DefaultFeeds when
// empty).
func NewRSSAdapter(feeds []Feed, client *http.Client) *RSSAdapter {
	if len(feeds) == 0 {
		feeds = DefaultFeeds
	}
	return &RSSAdapter{
		feeds:  feeds,
		client: client,
		parser: gofeed.NewParser(),
	}
}

func (a *RSSAdapter) Name() string { return model.SourceRSS }

// Queryless marks the adapter as independent of search queries, so the
// aggregation cycle fetches it once instead of once per query.
func (a *RSSAdapter) Queryless() bool { return true }

// Fetch pulls every configured feed. A broken feed doesn't stop the others;
// its error is joined into the returned error alongside whatever was fetched.
func (a *RSSAdapter) Fetch(ctx context.Context, _ model.SearchQuery) ([]model.Job, error) {
	var all []model.Job
	var errs []error
	for _, feed := range a.feeds {
		jobs, err := a.FetchFeed(ctx, feed)
		if err != nil {
			errs = append(errs, fmt.Errorf("feed %s: %w", feed.Name, err))
			continue
		}
		all = append(all, jobs...)
	}
	return all, errors.Join(errs...)
}

// FetchFeed retrieves and parses a single feed.
func (a *RSSAdapter) FetchFeed(ctx context.Context, feed Feed) ([]model.Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("rss fetch %s: %w", feed.URL, err)
	}
	req.Header.Set("User-Agent", feedUserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rss fetch %s: %w", feed.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("rss fetch %s: unexpected status %d", feed.URL, resp.StatusCode),
		}
	}

	parsed, err := a.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rss parse %s: %w", feed.URL, err)
	}

	jobs := make([]model.Job, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		jobs = append(jobs, convertFeedItem(feed.Name, item))
	}
	return jobs, nil
}

// convertFeedItem maps one feed entry into the unified Job model. Entries are
// messy: author and publish date are optional, and company/title arrive as a
// single combined string.
func convertFeedItem(feedName string, item *gofeed.Item) model.Job {
	author := ""
	if item.Author != nil {
		author = item.Author.Name
	}
	company, title := normalize.SplitFeedTitle(item.Title, author)

	rawDesc := item.Description
	if rawDesc == "" {
		rawDesc = item.Content
	}

	nativeID := item.GUID
	if nativeID == "" {
		nativeID = item.Link
	}

	return model.Job{
		SourceID:    fmt.Sprintf("rss_%s_%s", strings.ToLower(feedName), nativeID),
		Source:      model.SourceRSS,
		Title:       title,
		Company:     company,
		Location:    "Remote",
		Description: normalize.StripHTML(rawDesc),
		URL:         item.Link,
		WorkType:    "Remote",
		Sponsorship: "Unknown",
		PostedAt:    item.PublishedParsed, // nil tolerated; store defaults to ingestion time
	}
}
