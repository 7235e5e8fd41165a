package normalize

import (
	"regexp"
	"strings"
)

// Feed titles combine company and role in a handful of source conventions.
// Rules are tried in priority order; the first separator found wins.
type feedTitleRule struct {
	separator    string
	companyFirst bool
}

var feedTitleRules = []feedTitleRule{
	{" is hiring a ", true},  // "Acme is hiring a Backend Engineer"
	{" is hiring an ", true}, // "Acme is hiring an SRE"
	{": ", true},             // "Acme: Backend Engineer"
	{" at ", false},          // "Backend Engineer at Acme"
	{" - ", false},           // "Backend Engineer - Acme"
}

var bracketTagRegex = regexp.MustCompile(`\[.*?\]`)

// SplitFeedTitle derives (company, title) from a combined feed entry title.
// author, when non-empty, seeds the company for feeds that carry it
// separately. Titles matching none of the separator conventions are returned
// whole with the Unknown Company placeholder.
func SplitFeedTitle(fullTitle, author string) (company, title string) {
	company = CleanText(author)
	if company == "" {
		company = UnknownCompany
	}
	title = fullTitle

	for _, rule := range feedTitleRules {
		idx := strings.Index(fullTitle, rule.separator)
		if idx < 0 {
			continue
		}
		left := fullTitle[:idx]
		right := fullTitle[idx+len(rule.separator):]
		if rule.companyFirst {
			company, title = left, right
		} else {
			title, company = left, right
		}
		break
	}

	// Remotive-style category tags, e.g. "Designer [Marketing]".
	title = CleanText(bracketTagRegex.ReplaceAllString(title, ""))
	company = CleanText(bracketTagRegex.ReplaceAllString(company, ""))

	if title == "" {
		title = UnknownTitle
	}
	if company == "" {
		company = UnknownCompany
	}
	return company, title
}
