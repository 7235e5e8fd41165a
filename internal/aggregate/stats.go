package aggregate

import (
	"fmt"
	"strings"
	"time"
)

// SourceStats is the per-source outcome of one aggregation cycle.
type SourceStats struct {
	Source  string
	Fetched int  // jobs returned by the adapter
	Kept    int  // jobs that survived the USA filter
	Added   int  // newly inserted
	Updated int  // already known, refreshed in place
	Skipped bool // source had no credentials configured
	Err     error
}

// CycleStats summarizes one full aggregation cycle across all sources.
type CycleStats struct {
	Started  time.Time
	Duration time.Duration
	Sources  []SourceStats
	Deleted  int // removed by retention cleanup
}

// TotalAdded returns the number of newly inserted jobs across all sources.
func (s *CycleStats) TotalAdded() int {
	total := 0
	for _, src := range s.Sources {
		total += src.Added
	}
	return total
}

// TotalFetched returns the number of jobs fetched across all sources.
func (s *CycleStats) TotalFetched() int {
	total := 0
	for _, src := range s.Sources {
		total += src.Fetched
	}
	return total
}

// Failed returns the sources that ended the cycle with an error.
func (s *CycleStats) Failed() []SourceStats {
	var failed []SourceStats
	for _, src := range s.Sources {
		if src.Err != nil {
			failed = append(failed, src)
		}
	}
	return failed
}

// Summary renders a one-line-per-source report for CLI output.
func (s *CycleStats) Summary() string {
	var b strings.Builder
	for _, src := range s.Sources {
		switch {
		case src.Skipped:
			fmt.Fprintf(&b, "%-8s skipped (no credentials)\n", src.Source)
		case src.Err != nil:
			fmt.Fprintf(&b, "%-8s fetched=%d kept=%d added=%d updated=%d error: %v\n",
				src.Source, src.Fetched, src.Kept, src.Added, src.Updated, src.Err)
		default:
			fmt.Fprintf(&b, "%-8s fetched=%d kept=%d added=%d updated=%d\n",
				src.Source, src.Fetched, src.Kept, src.Added, src.Updated)
		}
	}
	fmt.Fprintf(&b, "total: %d added in %s (%d purged by retention)",
		s.TotalAdded(), s.Duration.Round(time.Millisecond), s.Deleted)
	return b.String()
}
