package aggregate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/novaninjas/jobsync/internal/category"
	"github.com/novaninjas/jobsync/internal/geo"
	"github.com/novaninjas/jobsync/internal/model"
	"github.com/novaninjas/jobsync/internal/ratelimit"
)

// queryless is implemented by sources whose results do not depend on the
// search query (feeds). They are fetched once per cycle instead of once per
// query.
type queryless interface {
	Queryless() bool
}

// sourceResult carries one source's cycle output from its worker goroutine to
// the collector. Jobs are already filtered and categorized; only the store
// write happens on the collector side.
type sourceResult struct {
	source  string
	fetched int
	kept    []model.Job
	err     error
}

// Aggregator runs the full aggregation cycle: fan out to all sources, filter
// to USA postings, categorize, upsert into the store, and purge stale jobs.
type Aggregator struct {
	sources       []model.JobSource
	store         model.JobStore
	limiter       *ratelimit.SourceRateLimiter
	queries       []model.SearchQuery
	retention     time.Duration
	sourceTimeout time.Duration
	logger        *slog.Logger
}

// Options tunes an Aggregator beyond its required dependencies.
type Options struct {
	Queries       []model.SearchQuery
	Retention     time.Duration // 0 disables retention cleanup
	SourceTimeout time.Duration // per-source budget for a whole cycle
}

const defaultSourceTimeout = 5 * time.Minute

// New creates an Aggregator over the given sources and store.
func New(sources []model.JobSource, store model.JobStore, limiter *ratelimit.SourceRateLimiter, opts Options, logger *slog.Logger) *Aggregator {
	timeout := opts.SourceTimeout
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	return &Aggregator{
		sources:       sources,
		store:         store,
		limiter:       limiter,
		queries:       opts.Queries,
		retention:     opts.Retention,
		sourceTimeout: timeout,
		logger:        logger,
	}
}

// RunCycle executes one aggregation cycle. Source failures never abort the
// cycle: each source's error is recorded in its stats and whatever jobs it
// returned before failing are still stored. The returned error covers only
// store-level problems.
func (a *Aggregator) RunCycle(ctx context.Context) (*CycleStats, error) {
	started := time.Now()
	a.logger.Info("starting aggregation cycle", "sources", len(a.sources), "queries", len(a.queries))

	results := make(chan sourceResult, len(a.sources))

	var g errgroup.Group
	for _, src := range a.sources {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
			defer cancel()
			results <- a.runSource(sctx, src)
			return nil
		})
	}
	g.Wait()
	close(results)

	stats := &CycleStats{Started: started}
	var storeErr error
	for res := range results {
		st := SourceStats{
			Source:  res.source,
			Fetched: res.fetched,
			Kept:    len(res.kept),
			Err:     res.err,
		}
		if errors.Is(res.err, model.ErrCredentialsMissing) {
			// Not configured is not a failure; leave its sync status alone.
			st.Skipped = true
			st.Err = nil
			a.logger.Warn("source skipped, credentials missing", "source", res.source)
			stats.Sources = append(stats.Sources, st)
			continue
		}

		for _, job := range res.kept {
			added, err := a.store.UpsertJob(ctx, job)
			if err != nil {
				a.logger.Error("storing job failed", "source", res.source, "source_id", job.SourceID, "error", err)
				storeErr = err
				continue
			}
			if added {
				st.Added++
			} else {
				st.Updated++
			}
		}

		status := model.SyncStatus{
			Source:    res.source,
			LastSync:  time.Now().UTC(),
			JobsAdded: st.Added,
			Status:    model.SyncSuccess,
		}
		if res.err != nil {
			status.Status = model.SyncFailed
			status.Error = res.err.Error()
		}
		if err := a.store.UpsertSyncStatus(ctx, status); err != nil {
			a.logger.Error("recording sync status failed", "source", res.source, "error", err)
			storeErr = err
		}

		a.logger.Info("source synced",
			"source", res.source,
			"fetched", st.Fetched,
			"kept", st.Kept,
			"added", st.Added,
			"updated", st.Updated,
			"status", status.Status,
		)
		stats.Sources = append(stats.Sources, st)
	}

	if a.retention > 0 {
		cutoff := time.Now().UTC().Add(-a.retention)
		deleted, err := a.store.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			a.logger.Error("retention cleanup failed", "error", err)
			storeErr = err
		} else {
			stats.Deleted = deleted
			if deleted > 0 {
				a.logger.Info("retention cleanup", "deleted", deleted, "cutoff", cutoff)
			}
		}
	}

	stats.Duration = time.Since(started)
	a.logger.Info("aggregation cycle complete",
		"added", stats.TotalAdded(),
		"fetched", stats.TotalFetched(),
		"failed_sources", len(stats.Failed()),
		"duration", stats.Duration,
	)
	return stats, storeErr
}

// runSource executes the query rotation for one source and runs each fetched
// job through the filter and categorization pipeline. On a mid-rotation
// error the jobs gathered so far are kept and the error reported with them.
func (a *Aggregator) runSource(ctx context.Context, src model.JobSource) sourceResult {
	res := sourceResult{source: src.Name()}

	queries := a.queries
	if q, ok := src.(queryless); ok && q.Queryless() {
		queries = []model.SearchQuery{{}}
	}

	for _, query := range queries {
		if err := a.limiter.Wait(ctx, src.Name()); err != nil {
			res.err = err
			return res
		}

		jobs, err := src.Fetch(ctx, query)
		res.fetched += len(jobs)
		for _, job := range jobs {
			if !geo.IsUSALocation(job.Location) {
				continue
			}
			job = category.Apply(job)
			if queryWantsSponsorship(query) {
				job = category.AddSponsoring(job)
			}
			res.kept = append(res.kept, job)
		}
		if err != nil {
			res.err = err
			return res
		}
	}
	return res
}

// queryWantsSponsorship reports whether the query itself targets visa
// sponsorship, in which case every hit gets the sponsoring tag even when the
// posting text doesn't mention it.
func queryWantsSponsorship(query model.SearchQuery) bool {
	kw := strings.ToLower(query.Keyword)
	return strings.Contains(kw, "visa") || strings.Contains(kw, "h1b")
}
