package normalize

import (
	"fmt"
	"strings"
)

// salary periods worth echoing back to the user; anything else is dropped.
var knownPeriods = map[string]bool{"hour": true, "month": true, "year": true}

// FormatSalary renders an optional min/max pair as a display range:
// "$120,000 - $150,000/year", "$120,000+", "Up to $150,000", or "" when
// neither bound is present. period is a provider unit like "YEAR" or "hour".
func FormatSalary(min, max int64, period string) string {
	if min <= 0 && max <= 0 {
		return ""
	}

	suffix := ""
	if p := strings.ToLower(strings.TrimSpace(period)); knownPeriods[p] {
		suffix = "/" + p
	}

	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("$%s - $%s%s", groupDigits(min), groupDigits(max), suffix)
	case min > 0:
		return fmt.Sprintf("$%s+%s", groupDigits(min), suffix)
	default:
		return fmt.Sprintf("Up to $%s%s", groupDigits(max), suffix)
	}
}

// groupDigits renders n with comma thousands separators.
func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
