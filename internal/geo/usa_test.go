package geo

import "testing"

func TestIsUSALocation(t *testing.T) {
	tests := []struct {
		location string
		want     bool
	}{
		// Explicit USA tokens.
		{"United States", true},
		{"Remote, USA", true},
		{"New York, US", true},
		{"Washington, D.C., U.S.", true},

		// State names and abbreviations, varied formatting.
		{"Austin, TX", true},
		{"California", true},
		{"Los Angeles, California, United States", true},
		{"Boise, Idaho", true},
		{"NY", true},

		// Block list wins, even when an acceptance token is also present.
		{"Remote - Worldwide, Earth", false},
		{"Remote Worldwide", false},
		{"Anywhere", false},
		{"Bangalore, India", false},
		{"Toronto, Canada", false},
		{"London, United Kingdom", false},
		{"Berlin, Germany", false},
		{"Dublin, Ohio", false}, // known false positive, preserved as-is

		// Default reject.
		{"", false},
		{"Europe", false},
	}
	for _, tt := range tests {
		if got := IsUSALocation(tt.location); got != tt.want {
			t.Errorf("IsUSALocation(%q) = %v, want %v", tt.location, got, tt.want)
		}
	}
}

func TestBlockListPrecedesStateMatch(t *testing.T) {
	// "Paris, Texas" is a real US city; the original pipeline rejected it
	// because the country token check runs first. That precedence is part of
	// the contract.
	if IsUSALocation("Paris, Texas") {
		t.Error("expected block-list token to take precedence over state match")
	}
}
