package dates

import (
	"testing"
	"time"
)

var ref = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeAt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty input", "", "2026-09-01"},
		{"whitespace only", "   ", "2026-09-01"},
		{"today", "today", "2026-09-01"},
		{"yesterday", "yesterday", "2026-08-31"},
		{"tomorrow", "tomorrow", "2026-09-02"},
		{"canonical form", "2026-08-15", "2026-08-15"},
		{"slash form", "2026/08/15", "2026-08-15"},
		{"month name", "Jan 2, 2026", "2026-01-02"},
		{"garbage", "not a date at all ???", "2026-09-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAt(tt.input, ref)
			if got != tt.want {
				t.Errorf("NormalizeAt(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeAtBounds(t *testing.T) {
	// Natural-language candidates outside [ref-1y, ref+1mo] are treated as
	// mis-parses and resolve to the reference date, not the candidate.
	tests := []struct {
		name  string
		input string
	}{
		{"years back", "2 years ago"},
		{"years ahead", "in 2 years"},
		{"beyond one month ahead", "in 3 months"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAt(tt.input, ref)
			if got != "2026-09-01" {
				t.Errorf("NormalizeAt(%q) = %q, want reference date", tt.input, got)
			}
		})
	}
}

func TestNormalizeAtWithinBounds(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3 days ago", "2026-08-29"},
		{"in 2 weeks", "2026-09-15"},
		// Direct calendar parses are accepted as-is, no window applies.
		{"2026-01-15", "2026-01-15"},
		{"2025-10-01", "2025-10-01"},
	}

	for _, tt := range tests {
		got := NormalizeAt(tt.input, ref)
		if got != tt.want {
			t.Errorf("NormalizeAt(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeNeverEmpty(t *testing.T) {
	inputs := []string{"", "???", "unspecified", "2026-02-30", "13/45/9999"}
	for _, input := range inputs {
		got := Normalize(input)
		if _, err := time.Parse(Layout, got); err != nil {
			t.Errorf("Normalize(%q) = %q, not a canonical date", input, got)
		}
	}
}
