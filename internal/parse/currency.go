package parse

import (
	"strings"
	"time"
)

// CurrencyCutoff is the instant Wealthsimple changed the currency
// notation in its notification emails. Before the cutoff, amounts are
// written with a bare "$" for CAD and "CA$" as the explicit form.
// From the cutoff on, the meaning inverts: a bare "$" is USD, and CAD
// is always written with the explicit "CA$" prefix. Historical
// messages must round-trip under the convention that was in force on
// their date.
var CurrencyCutoff = time.Date(2023, time.August, 1, 0, 0, 0, 0, time.UTC)

// glyphCurrency resolves a currency-glyph prefix to an ISO code under
// the convention in force at the given date. This rule is specific to
// Wealthsimple's email template; another brokerage adapter would carry
// its own rule.
func glyphCurrency(prefix string, date time.Time) string {
	switch strings.ToUpper(prefix) {
	case "CA":
		return "CAD"
	case "US":
		return "USD"
	case "":
		if date.Before(CurrencyCutoff) {
			return "CAD"
		}
		return "USD"
	default:
		return strings.ToUpper(prefix) + "D"
	}
}
