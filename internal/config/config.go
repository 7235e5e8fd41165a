package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/novaninjas/jobsync/internal/model"
	"github.com/novaninjas/jobsync/internal/source"
)

// Config is the root configuration for the jobsync aggregator.
type Config struct {
	Database       string        // path to the SQLite database
	SyncInterval   time.Duration // gap between aggregation cycles in daemon mode
	Retention      time.Duration // jobs older than this are purged after each cycle
	RequestTimeout time.Duration // per-request HTTP timeout
	Queries        []model.SearchQuery
	RateLimit      RateLimitConfig
	Adzuna         AdzunaConfig
	JSearch        JSearchConfig
	USAJobs        USAJobsConfig
	RSS            RSSConfig
}

// RateLimitConfig controls the politeness delay between consecutive requests
// to the same provider.
type RateLimitConfig struct {
	MinDelay  time.Duration            // default gap between requests to the same source
	Overrides map[string]time.Duration // per-source overrides, keyed by source name
}

// MinDelayFor returns the configured delay for the given source, falling back
// to MinDelay.
func (r RateLimitConfig) MinDelayFor(src string) time.Duration {
	if d, ok := r.Overrides[src]; ok {
		return d
	}
	return r.MinDelay
}

// AdzunaConfig configures the Adzuna REST source.
type AdzunaConfig struct {
	Enabled        bool   `yaml:"enabled"`
	AppID          string `yaml:"app_id"`
	AppKey         string `yaml:"app_key"`
	MaxPages       int    `yaml:"max_pages"`
	ResultsPerPage int    `yaml:"results_per_page"`
	MaxDaysOld     int    `yaml:"max_days_old"`
}

// JSearchConfig configures the JSearch (RapidAPI) source.
type JSearchConfig struct {
	Enabled       bool   `yaml:"enabled"`
	APIKey        string `yaml:"api_key"`
	PagesPerQuery int    `yaml:"pages_per_query"`
	DatePosted    string `yaml:"date_posted"`
}

// USAJobsConfig configures the USAJobs.gov source.
type USAJobsConfig struct {
	Enabled        bool   `yaml:"enabled"`
	APIKey         string `yaml:"api_key"`
	UserAgent      string `yaml:"user_agent"`
	ResultsPerPage int    `yaml:"results_per_page"`
	MaxResults     int    `yaml:"max_results"`
}

// RSSConfig configures the RSS feed source. Feeds defaults to the standard
// remote-job feed set when empty.
type RSSConfig struct {
	Enabled bool          `yaml:"enabled"`
	Feeds   []source.Feed `yaml:"feeds"`
}

// DefaultQueries is the high-intent keyword rotation used when the config
// names no queries of its own.
var DefaultQueries = []string{
	"software engineer", "visa sponsorship", "h1b friendly",
	"work visa", "data scientist", "product manager",
	"project manager", "business analyst", "devops engineer",
	"full stack developer",
}

const (
	defaultDatabase       = "jobsync.db"
	defaultSyncInterval   = 1 * time.Hour
	defaultRetention      = 72 * time.Hour
	defaultRequestTimeout = 20 * time.Second
	defaultMinDelay       = 1 * time.Second
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as
// strings).
type rawConfig struct {
	Database       string             `yaml:"database"`
	SyncInterval   string             `yaml:"sync_interval"`
	Retention      string             `yaml:"retention"`
	RequestTimeout string             `yaml:"request_timeout"`
	Queries        []rawQuery         `yaml:"queries"`
	RateLimit      rawRateLimitConfig `yaml:"rate_limit"`
	Adzuna         AdzunaConfig       `yaml:"adzuna"`
	JSearch        JSearchConfig      `yaml:"jsearch"`
	USAJobs        USAJobsConfig      `yaml:"usajobs"`
	RSS            RSSConfig          `yaml:"rss"`
}

type rawQuery struct {
	Keyword  string `yaml:"keyword"`
	Location string `yaml:"location"`
}

type rawRateLimitConfig struct {
	MinDelay  string            `yaml:"min_delay"`
	Overrides map[string]string `yaml:"overrides"`
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. Environment variable references in the file ($VAR or
// ${VAR}) are expanded before parsing, so credentials stay out of the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := &Config{
		Database:       raw.Database,
		SyncInterval:   defaultSyncInterval,
		Retention:      defaultRetention,
		RequestTimeout: defaultRequestTimeout,
		Adzuna:         raw.Adzuna,
		JSearch:        raw.JSearch,
		USAJobs:        raw.USAJobs,
		RSS:            raw.RSS,
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}

	if raw.SyncInterval != "" {
		cfg.SyncInterval, err = time.ParseDuration(raw.SyncInterval)
		if err != nil {
			return nil, fmt.Errorf("parse sync_interval %q: %w", raw.SyncInterval, err)
		}
	}
	if raw.Retention != "" {
		cfg.Retention, err = time.ParseDuration(raw.Retention)
		if err != nil {
			return nil, fmt.Errorf("parse retention %q: %w", raw.Retention, err)
		}
	}
	if raw.RequestTimeout != "" {
		cfg.RequestTimeout, err = time.ParseDuration(raw.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse request_timeout %q: %w", raw.RequestTimeout, err)
		}
	}

	minDelay := defaultMinDelay
	if raw.RateLimit.MinDelay != "" {
		minDelay, err = time.ParseDuration(raw.RateLimit.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
		}
	}
	overrides := make(map[string]time.Duration)
	for src, rawDelay := range raw.RateLimit.Overrides {
		d, err := time.ParseDuration(rawDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.overrides[%q]: %w", src, err)
		}
		overrides[src] = d
	}
	cfg.RateLimit = RateLimitConfig{MinDelay: minDelay, Overrides: overrides}

	for _, q := range raw.Queries {
		cfg.Queries = append(cfg.Queries, model.SearchQuery{
			Keyword:  strings.TrimSpace(q.Keyword),
			Location: strings.TrimSpace(q.Location),
		})
	}
	if len(cfg.Queries) == 0 {
		for _, kw := range DefaultQueries {
			cfg.Queries = append(cfg.Queries, model.SearchQuery{Keyword: kw})
		}
	}

	// Copy-pasted credentials often carry stray whitespace.
	cfg.Adzuna.AppID = strings.TrimSpace(cfg.Adzuna.AppID)
	cfg.Adzuna.AppKey = strings.TrimSpace(cfg.Adzuna.AppKey)
	cfg.JSearch.APIKey = strings.TrimSpace(cfg.JSearch.APIKey)
	cfg.USAJobs.APIKey = strings.TrimSpace(cfg.USAJobs.APIKey)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration used when no config file exists: all
// sources enabled, credentials from the environment, standard rotation.
func Default() *Config {
	cfg := &Config{
		Database:       defaultDatabase,
		SyncInterval:   defaultSyncInterval,
		Retention:      defaultRetention,
		RequestTimeout: defaultRequestTimeout,
		RateLimit:      RateLimitConfig{MinDelay: defaultMinDelay, Overrides: map[string]time.Duration{}},
		Adzuna: AdzunaConfig{
			Enabled: true,
			AppID:   strings.TrimSpace(os.Getenv("ADZUNA_APP_ID")),
			AppKey:  strings.TrimSpace(os.Getenv("ADZUNA_APP_KEY")),
		},
		JSearch: JSearchConfig{
			Enabled: true,
			APIKey:  strings.TrimSpace(os.Getenv("RAPIDAPI_KEY")),
		},
		USAJobs: USAJobsConfig{
			Enabled: true,
			APIKey:  strings.TrimSpace(os.Getenv("USAJOBS_API_KEY")),
		},
		RSS: RSSConfig{Enabled: true},
	}
	for _, kw := range DefaultQueries {
		cfg.Queries = append(cfg.Queries, model.SearchQuery{Keyword: kw})
	}
	return cfg
}

func validate(cfg *Config) error {
	if cfg.SyncInterval <= 0 {
		return fmt.Errorf("sync_interval must be positive, got %v", cfg.SyncInterval)
	}
	if cfg.Retention <= 0 {
		return fmt.Errorf("retention must be positive, got %v", cfg.Retention)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if !cfg.Adzuna.Enabled && !cfg.JSearch.Enabled && !cfg.USAJobs.Enabled && !cfg.RSS.Enabled {
		return fmt.Errorf("at least one source must be enabled")
	}
	for i, q := range cfg.Queries {
		if q.Keyword == "" {
			return fmt.Errorf("queries[%d].keyword must not be empty", i)
		}
	}
	return nil
}
