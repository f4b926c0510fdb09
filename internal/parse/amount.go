package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyGlyph matches a currency marker at the start of a field
// value: an optional alphabetic prefix followed by a dollar sign
// (e.g., "$", "CA$", "US$").
var currencyGlyph = regexp.MustCompile(`^([A-Za-z]{0,2})\$\s*`)

// SplitCurrency separates a "<prefix>$<amount>"-style value into its
// currency prefix and the bare amount string. Values without a glyph
// come back with an empty prefix and hasGlyph == false.
func SplitCurrency(value string) (prefix, amount string, hasGlyph bool) {
	value = strings.TrimSpace(value)
	m := currencyGlyph.FindStringSubmatch(value)
	if m == nil {
		return "", value, false
	}
	return m[1], strings.TrimSpace(value[len(m[0]):]), true
}

// ParseAmount converts a field value into a decimal, tolerating a
// currency glyph and thousands separators.
func ParseAmount(value string) (decimal.Decimal, error) {
	_, amount, _ := SplitCurrency(value)
	amount = strings.ReplaceAll(amount, ",", "")
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	return d, nil
}

// FormatTotal renders a computed total to two decimal places with
// thousands separators, matching the format the brokerage uses in its
// own "Total cost"/"Total value" lines.
func FormatTotal(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
