package parse

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitCurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		prefix   string
		amount   string
		hasGlyph bool
	}{
		{"$19.99", "", "19.99", true},
		{"CA$50,000.00", "CA", "50,000.00", true},
		{"US$1.00", "US", "1.00", true},
		{"$ 5.00", "", "5.00", true},
		{"0.5", "", "0.5", false},
		{"", "", "", false},
	}

	for _, tc := range tests {
		prefix, amount, hasGlyph := SplitCurrency(tc.in)
		if prefix != tc.prefix || amount != tc.amount || hasGlyph != tc.hasGlyph {
			t.Errorf("SplitCurrency(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.in, prefix, amount, hasGlyph, tc.prefix, tc.amount, tc.hasGlyph)
		}
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"CA$50,000.00", "50000"},
		{"$12.34", "12.34"},
		{"1,234,567.89", "1234567.89"},
		{"0.5", "0.5"},
	}

	for _, tc := range tests {
		got, err := ParseAmount(tc.in)
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParseAmount("not a number"); err == nil {
		t.Error("expected an error for a non-numeric value")
	}
}

func TestFormatTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"25000", "25,000.00"},
		{"1015.726", "1,015.73"},
		{"999.99", "999.99"},
		{"1234567.8", "1,234,567.80"},
		{"0", "0.00"},
		{"-1234.5", "-1,234.50"},
	}

	for _, tc := range tests {
		got := FormatTotal(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Errorf("FormatTotal(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
