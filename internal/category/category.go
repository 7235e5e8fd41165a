// Package category derives coarse tags from a job's description and salary.
// Rules are independent; a job may carry zero to three tags.
package category

import (
	"strings"

	"github.com/novaninjas/jobsync/internal/model"
)

// Tag names assigned by Apply.
const (
	HighPaying = "high_paying"
	Sponsoring = "sponsoring"
	Startup    = "startup"
)

// Salary upper bound above which a job counts as high paying.
const highPayingThreshold = 150000

var sponsorshipKeywords = []string{"visa", "sponsorship", "h1b", "green card", "work authorization"}

var startupKeywords = []string{"startup", "early stage", "seed", "series a", "series b"}

// Apply returns the job with its Categories populated. Matching is
// case-insensitive substring search over the description.
func Apply(job model.Job) model.Job {
	desc := strings.ToLower(job.Description)

	var categories []string
	if job.SalaryMax > highPayingThreshold {
		categories = append(categories, HighPaying)
	}
	if containsAny(desc, sponsorshipKeywords) {
		categories = append(categories, Sponsoring)
	}
	if containsAny(desc, startupKeywords) {
		categories = append(categories, Startup)
	}

	job.Categories = categories
	return job
}

// AddSponsoring appends the sponsoring tag if not already present. Used for
// jobs surfaced by visa-signaling search queries whose descriptions don't
// carry the keywords themselves.
func AddSponsoring(job model.Job) model.Job {
	for _, c := range job.Categories {
		if c == Sponsoring {
			return job
		}
	}
	job.Categories = append(job.Categories, Sponsoring)
	return job
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
