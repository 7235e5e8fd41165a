// Package normalize holds the pure text-normalization primitives shared by the
// source adapters: HTML stripping, salary phrasing, work-type detection, and
// feed title splitting. Nothing here performs I/O.
package normalize

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Placeholders for required display fields the provider left empty.
const (
	UnknownTitle   = "Unknown Title"
	UnknownCompany = "Unknown Company"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// CleanText collapses whitespace (including non-breaking spaces) and trims.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// StripHTML converts an HTML or HTML-encoded description to plain text.
// Entities are unescaped first (handles double-encoded payloads; a no-op on
// already-real HTML), then tags are removed and whitespace collapsed.
func StripHTML(content string) string {
	if content == "" {
		return ""
	}
	unescaped := html.UnescapeString(content)
	// Tag boundaries must become word boundaries, otherwise adjacent block
	// elements ("<p>a</p><p>b</p>") glue their text together.
	spaced := strings.ReplaceAll(unescaped, "<", " <")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(spaced))
	if err != nil {
		// Unparseable markup: fall back to a blunt tag strip.
		return CleanText(htmlTagRegex.ReplaceAllString(unescaped, " "))
	}
	return CleanText(doc.Text())
}

// Title returns the title or the placeholder when empty.
func Title(s string) string {
	if s = CleanText(s); s == "" {
		return UnknownTitle
	}
	return s
}

// Company returns the company name or the placeholder when empty.
func Company(s string) string {
	if s = CleanText(s); s == "" {
		return UnknownCompany
	}
	return s
}

// DetectWorkType classifies a description as Remote, Hybrid, or On-site.
func DetectWorkType(description string) string {
	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "remote") || strings.Contains(d, "work from home"):
		return "Remote"
	case strings.Contains(d, "hybrid"):
		return "Hybrid"
	default:
		return "On-site"
	}
}
