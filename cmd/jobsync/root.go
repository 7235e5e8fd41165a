package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/novaninjas/jobsync/internal/aggregate"
	"github.com/novaninjas/jobsync/internal/config"
	"github.com/novaninjas/jobsync/internal/model"
	"github.com/novaninjas/jobsync/internal/ratelimit"
	"github.com/novaninjas/jobsync/internal/source"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobsync",
	Short: "USA job aggregator — pull postings from many boards into one place",
	Long:  "jobsync polls job APIs and RSS feeds, filters to USA postings, and stores them in a local SQLite database.",
	// Default to `start` so that `jobsync` with no args runs the daemon.
	// This preserves compatibility with systemd unit files that invoke the binary directly.
	RunE: runStart,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSYNC_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSYNC_CONFIG env var > "./config.yaml".
// When no explicit path is given and no file exists at the default location,
// the built-in defaults (credentials from the environment) are used.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if path == "" {
		if env := os.Getenv("JOBSYNC_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = "config.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// buildSources constructs an adapter for every enabled source.
func buildSources(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.JobSource {
	var sources []model.JobSource
	if cfg.Adzuna.Enabled {
		sources = append(sources, source.NewAdzunaAdapter(source.AdzunaConfig{
			AppID:          cfg.Adzuna.AppID,
			AppKey:         cfg.Adzuna.AppKey,
			MaxPages:       cfg.Adzuna.MaxPages,
			ResultsPerPage: cfg.Adzuna.ResultsPerPage,
			MaxDaysOld:     cfg.Adzuna.MaxDaysOld,
		}, httpClient))
	}
	if cfg.JSearch.Enabled {
		sources = append(sources, source.NewJSearchAdapter(source.JSearchConfig{
			APIKey:        cfg.JSearch.APIKey,
			PagesPerQuery: cfg.JSearch.PagesPerQuery,
			DatePosted:    cfg.JSearch.DatePosted,
		}, httpClient))
	}
	if cfg.USAJobs.Enabled {
		sources = append(sources, source.NewUSAJobsAdapter(source.USAJobsConfig{
			APIKey:         cfg.USAJobs.APIKey,
			UserAgent:      cfg.USAJobs.UserAgent,
			ResultsPerPage: cfg.USAJobs.ResultsPerPage,
			MaxResults:     cfg.USAJobs.MaxResults,
		}, httpClient))
	}
	if cfg.RSS.Enabled {
		sources = append(sources, source.NewRSSAdapter(cfg.RSS.Feeds, httpClient))
	}
	for _, src := range sources {
		logger.Info("registered source", "source", src.Name())
	}
	return sources
}

// buildAggregator wires sources, limiter, and store into one aggregator.
func buildAggregator(cfg *config.Config, jobStore model.JobStore, httpClient *http.Client, logger *slog.Logger) *aggregate.Aggregator {
	limiter := ratelimit.NewSourceRateLimiter(cfg.RateLimit.MinDelay)
	for src, delay := range cfg.RateLimit.Overrides {
		limiter.SetDelay(src, delay)
	}
	sources := buildSources(cfg, httpClient, logger)
	return aggregate.New(sources, jobStore, limiter, aggregate.Options{
		Queries:   cfg.Queries,
		Retention: cfg.Retention,
	}, logger)
}
