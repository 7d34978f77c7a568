package timefmt

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{"padded day and month", time.Date(2025, time.March, 4, 9, 5, 0, 0, time.UTC), "04/03/2025 09:05"},
		{"end of year", time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC), "31/12/2024 23:59"},
		{"seconds dropped", time.Date(2026, time.January, 1, 0, 0, 42, 0, time.UTC), "01/01/2026 00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.input); got != tt.expected {
				t.Errorf("Format() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormat_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := time.Date(2025, time.June, 10, 22, 30, 0, 0, time.UTC)

	if got := Format(ts.In(loc)); got != "11/06/2025 01:30" {
		t.Errorf("Format() in UTC+3 = %q, want %q", got, "11/06/2025 01:30")
	}
}
