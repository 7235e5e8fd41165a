// Package geo decides whether a posting's location string is USA-eligible.
// The classifier is a fixed-table text heuristic: an explicit block list is
// checked before any acceptance rule, so "Remote - Worldwide" can never be
// rescued by an accidental state-name collision. Ambiguous locations are
// rejected.
package geo

import "strings"

// Substrings that immediately disqualify a location.
var nonUSAIndicators = []string{
	"uk", "gb", "united kingdom", "england", "scotland", "wales",
	"canada", "toronto", "vancouver", "montreal",
	"india", "bangalore", "mumbai", "delhi", "hyderabad",
	"australia", "sydney", "melbourne",
	"germany", "berlin", "munich",
	"france", "paris",
	"china", "cn", "beijing", "shanghai",
	"japan", "jp", "tokyo",
	"singapore", "sg",
	"ireland", "ie", "dublin",
	"netherlands", "nl", "amsterdam",
	"remote - worldwide", "remote worldwide", "anywhere",
}

// Substrings that positively identify the USA.
var usaKeywords = []string{"united states", "usa", "u.s.", "us,", ", us"}

// Full state names and two-letter postal abbreviations, all lower case.
var usaStates = []string{
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado",
	"connecticut", "delaware", "florida", "georgia", "hawaii", "idaho",
	"illinois", "indiana", "iowa", "kansas", "kentucky", "louisiana",
	"maine", "maryland", "massachusetts", "michigan", "minnesota",
	"mississippi", "missouri", "montana", "nebraska", "nevada",
	"new hampshire", "new jersey", "new mexico", "new york",
	"north carolina", "north dakota", "ohio", "oklahoma", "oregon",
	"pennsylvania", "rhode island", "south carolina", "south dakota",
	"tennessee", "texas", "utah", "vermont", "virginia", "washington",
	"west virginia", "wisconsin", "wyoming",
	"al", "ak", "az", "ar", "ca", "co", "ct", "de", "fl", "ga",
	"hi", "id", "il", "in", "ia", "ks", "ky", "la", "me", "md",
	"ma", "mi", "mn", "ms", "mo", "mt", "ne", "nv", "nh", "nj",
	"nm", "ny", "nc", "nd", "oh", "ok", "or", "pa", "ri", "sc",
	"sd", "tn", "tx", "ut", "vt", "va", "wa", "wv", "wi", "wy",
}

// IsUSALocation reports whether the location string passes the USA-only
// heuristic. The check order is load-bearing: block list, then explicit USA
// tokens, then per-comma-segment state matching, then reject.
func IsUSALocation(location string) bool {
	loc := strings.ToLower(location)

	for _, indicator := range nonUSAIndicators {
		if strings.Contains(loc, indicator) {
			return false
		}
	}

	for _, keyword := range usaKeywords {
		if strings.Contains(loc, keyword) {
			return true
		}
	}

	// State matching is deliberately substring, not exact token: provider
	// strings range from "CA" to "Los Angeles, California, United States".
	for _, part := range strings.Split(loc, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		for _, state := range usaStates {
			if part == state || strings.Contains(part, state) {
				return true
			}
		}
	}

	return false
}
