package normalize

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Build distributed systems.", "Build distributed systems."},
		{"tags removed", "<p>Build <b>distributed</b> systems.</p>", "Build distributed systems."},
		{"adjacent blocks keep word boundary", "<p>First</p><p>Second</p>", "First Second"},
		{"entities unescaped", "AT&amp;T is hiring", "AT&T is hiring"},
		{"double encoded", "&lt;p&gt;Hello world&lt;/p&gt;", "Hello world"},
		{"whitespace collapsed", "a\n\n  b\tc", "a b c"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatSalary(t *testing.T) {
	tests := []struct {
		name   string
		min    int64
		max    int64
		period string
		want   string
	}{
		{"both bounds", 120000, 150000, "", "$120,000 - $150,000"},
		{"both bounds with period", 120000, 150000, "year", "$120,000 - $150,000/year"},
		{"period case folded", 40, 60, "HOUR", "$40 - $60/hour"},
		{"unknown period dropped", 120000, 150000, "fortnight", "$120,000 - $150,000"},
		{"min only", 120000, 0, "", "$120,000+"},
		{"max only", 0, 150000, "", "Up to $150,000"},
		{"neither", 0, 0, "year", ""},
		{"no grouping below 1000", 500, 900, "", "$500 - $900"},
		{"seven digits", 1250000, 0, "", "$1,250,000+"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSalary(tt.min, tt.max, tt.period); got != tt.want {
				t.Errorf("FormatSalary(%d, %d, %q) = %q, want %q", tt.min, tt.max, tt.period, got, tt.want)
			}
		})
	}
}

func TestSplitFeedTitle(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		author      string
		wantCompany string
		wantTitle   string
	}{
		{"title at company", "Backend Engineer at Acme", "", "Acme", "Backend Engineer"},
		{"company colon title", "Acme: Backend Engineer", "", "Acme", "Backend Engineer"},
		{"is hiring a", "Acme is hiring a Backend Engineer", "", "Acme", "Backend Engineer"},
		{"is hiring an", "Acme is hiring an SRE", "", "Acme", "SRE"},
		{"title dash company", "Backend Engineer - Acme", "", "Acme", "Backend Engineer"},
		{"author seeds company", "Backend Engineer", "Acme", "Acme", "Backend Engineer"},
		{"separator wins over author", "Backend Engineer at Acme", "Someone Else", "Acme", "Backend Engineer"},
		{"no separator no author", "Backend Engineer", "", UnknownCompany, "Backend Engineer"},
		{"bracket tags stripped", "Designer [Marketing] at Acme", "", "Acme", "Designer"},
		{"empty title", "", "", UnknownCompany, UnknownTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			company, title := SplitFeedTitle(tt.title, tt.author)
			if company != tt.wantCompany || title != tt.wantTitle {
				t.Errorf("SplitFeedTitle(%q, %q) = (%q, %q), want (%q, %q)",
					tt.title, tt.author, company, title, tt.wantCompany, tt.wantTitle)
			}
		})
	}
}

func TestDetectWorkType(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"Fully remote team across the US", "Remote"},
		{"Work from home okay", "Remote"},
		{"Hybrid, 2 days in office", "Hybrid"},
		{"On our downtown campus", "On-site"},
		{"", "On-site"},
	}
	for _, tt := range tests {
		if got := DetectWorkType(tt.desc); got != tt.want {
			t.Errorf("DetectWorkType(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestTitleAndCompanyPlaceholders(t *testing.T) {
	if got := Title(""); got != UnknownTitle {
		t.Errorf("Title(\"\") = %q, want %q", got, UnknownTitle)
	}
	if got := Title("  Staff Engineer "); got != "Staff Engineer" {
		t.Errorf("Title trimmed = %q, want %q", got, "Staff Engineer")
	}
	if got := Company("   "); got != UnknownCompany {
		t.Errorf("Company(blank) = %q, want %q", got, UnknownCompany)
	}
}
