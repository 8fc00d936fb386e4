package generic_test

import (
	"testing"

	"github.com/warp/loyalty-reporter/generic"
)

func TestFormatDate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2025-03-10T14:30:00Z", "March 10, 2025 at 14:30 UTC"},
		{"2025-03-10T14:30:00", "March 10, 2025 at 14:30 UTC"},
		{"2025-03-10", "March 10, 2025 at 00:00 UTC"},
		{"", "Not specified"},
		{"soon", "soon"}, // unparseable stays verbatim
	}
	for _, c := range cases {
		if got := generic.FormatDate(c.in); got != c.want {
			t.Errorf("FormatDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestShortDate(t *testing.T) {
	if got := generic.ShortDate("2025-03-10T14:30:00Z"); got != "2025-03-10" {
		t.Errorf("got %q", got)
	}
	if got := generic.ShortDate(""); got != "Unknown" {
		t.Errorf("got %q", got)
	}
}

func TestFormatDateRange(t *testing.T) {
	both := map[string]any{"start": "2025-01-01", "end": "2025-06-30"}
	if got := generic.FormatDateRange(both); got != "January 01, 2025 - June 30, 2025" {
		t.Errorf("got %q", got)
	}
	onlyStart := map[string]any{"start": "2025-01-01"}
	if got := generic.FormatDateRange(onlyStart); got != "From January 01, 2025" {
		t.Errorf("got %q", got)
	}
	onlyEnd := map[string]any{"end": "2025-06-30"}
	if got := generic.FormatDateRange(onlyEnd); got != "Until June 30, 2025" {
		t.Errorf("got %q", got)
	}
	if got := generic.FormatDateRange(nil); got != "Not specified" {
		t.Errorf("got %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{float64(1234567), "1,234,567"},
		{float64(999), "999"},
		{int64(-12345), "-12,345"},
		{nil, "0"},
		{"n/a", "n/a"},
	}
	for _, c := range cases {
		if got := generic.FormatNumber(c.in); got != c.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := generic.FormatCurrency(float64(1234.5), ""); got != "$1,234.50 USD" {
		t.Errorf("got %q", got)
	}
	if got := generic.FormatCurrency(nil, ""); got != "N/A" {
		t.Errorf("got %q", got)
	}
	if got := generic.FormatCurrency(float64(10), "CAD"); got != "$10.00 CAD" {
		t.Errorf("got %q", got)
	}
}

func TestPrettifyKey(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"memberCount", "Member Count"},
		{"last_built", "Last Built"},
		{"status", "Status"},
		{"maxUsagePerDay", "Max Usage Per Day"},
	}
	for _, c := range cases {
		if got := generic.PrettifyKey(c.in); got != c.want {
			t.Errorf("PrettifyKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
