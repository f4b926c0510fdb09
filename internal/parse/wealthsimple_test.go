package parse

import (
	"strings"
	"testing"
	"time"
)

var (
	beforeCutoff = CurrencyCutoff.AddDate(0, -6, 0)
	afterCutoff  = CurrencyCutoff.AddDate(0, 6, 0)
)

func body(lines ...string) string {
	return strings.Join(lines, "\n")
}

func TestParseFilledOrderComputesTotal(t *testing.T) {
	t.Parallel()

	p := NewWealthsimple()
	rec, ok, err := p.Parse(
		"Your order has been filled",
		afterCutoff,
		body(
			"Account: RRSP",
			"Cryptocurrency: BTC",
			"Type: Buy",
			"Quantity: 0.5",
			"Average price: CA$50,000.00",
		),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("trade subject should be relevant")
	}

	if rec.Symbol != "BTC" {
		t.Errorf("Symbol: got %q, want BTC", rec.Symbol)
	}
	if rec.InvestmentAccount != "rrsp" {
		t.Errorf("InvestmentAccount: got %q, want rrsp", rec.InvestmentAccount)
	}
	if rec.TransactionType != "buy" {
		t.Errorf("TransactionType: got %q, want buy", rec.TransactionType)
	}
	if rec.Total != "25,000.00" {
		t.Errorf("Total: got %q, want 25,000.00", rec.Total)
	}
	if rec.Currency != "CAD" {
		t.Errorf("Currency: got %q, want CAD (explicit CA$ after cutoff)", rec.Currency)
	}
	if !rec.TransactionDate.Equal(afterCutoff) {
		t.Errorf("TransactionDate: got %v", rec.TransactionDate)
	}
}

func TestParseExplicitTotalWins(t *testing.T) {
	t.Parallel()

	p := NewWealthsimple()
	rec, _, err := p.Parse(
		"Your order has been filled",
		beforeCutoff,
		body(
			"Account: TFSA",
			"Stock: VFV",
			"Type: Buy",
			"Quantity: 10",
			"Average price: $101.50",
			"Total cost: $1,015.73",
		),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The body's own total is authoritative over quantity×price.
	if rec.Total != "1,015.73" {
		t.Errorf("Total: got %q, want 1,015.73", rec.Total)
	}
	if rec.InvestmentAccount != "tfsa" {
		t.Errorf("InvestmentAccount: got %q, want tfsa", rec.InvestmentAccount)
	}
}

func TestCurrencyGlyphCutoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		date  time.Time
		price string
		want  string
	}{
		{"bare dollar before cutoff is CAD", beforeCutoff, "$10.00", "CAD"},
		{"explicit CA before cutoff is CAD", beforeCutoff, "CA$10.00", "CAD"},
		{"explicit US before cutoff is USD", beforeCutoff, "US$10.00", "USD"},
		{"bare dollar after cutoff is USD", afterCutoff, "$10.00", "USD"},
		{"explicit CA after cutoff is CAD", afterCutoff, "CA$10.00", "CAD"},
		{"explicit US after cutoff is USD", afterCutoff, "US$10.00", "USD"},
		{"instant of cutoff uses new rule", CurrencyCutoff, "$10.00", "USD"},
	}

	p := NewWealthsimple()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, _, err := p.Parse(
				"Your order has been filled",
				tc.date,
				body(
					"Account: RRSP",
					"Stock: XEQT",
					"Quantity: 1",
					"Average price: "+tc.price,
				),
			)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Currency != tc.want {
				t.Errorf("got %q, want %q", rec.Currency, tc.want)
			}
		})
	}
}

func TestParseDividendDefaultsQuantity(t *testing.T) {
	t.Parallel()

	p := NewWealthsimple()
	rec, ok, err := p.Parse(
		"You received a dividend",
		beforeCutoff,
		body(
			"Account: Personal",
			"Stock: ENB",
			"Amount: $12.34",
		),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("dividend subject should be relevant")
	}

	if rec.TransactionType != "dividend" {
		t.Errorf("TransactionType: got %q, want dividend", rec.TransactionType)
	}
	if rec.Quantity != "1" {
		t.Errorf("Quantity: got %q, want 1", rec.Quantity)
	}
	if rec.Total != "12.34" {
		t.Errorf("Total: got %q, want 12.34", rec.Total)
	}
	if rec.Currency != "CAD" {
		t.Errorf("Currency: got %q, want CAD", rec.Currency)
	}
	if rec.InvestmentAccount != "personal" {
		t.Errorf("InvestmentAccount: got %q, want personal", rec.InvestmentAccount)
	}
}

func TestParseIgnoresUnrelatedSubjects(t *testing.T) {
	t.Parallel()

	p := NewWealthsimple()
	for _, subject := range []string{
		"Welcome to Wealthsimple",
		"Your monthly statement is ready",
		"Security alert",
	} {
		rec, ok, err := p.Parse(subject, afterCutoff, "Account: RRSP")
		if err != nil {
			t.Errorf("%q: unexpected error: %v", subject, err)
		}
		if ok || rec != nil {
			t.Errorf("%q should not be relevant", subject)
		}
	}
}

func TestParseStripsBoldingMarkup(t *testing.T) {
	t.Parallel()

	p := NewWealthsimple()
	rec, _, err := p.Parse(
		"Your order has been filled",
		afterCutoff,
		body(
			"**Account:** RRSP",
			"**Cryptocurrency:** ETH",
			"**Quantity:** 2",
			"**Average price:** CA$3,000.00",
		),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Symbol != "ETH" {
		t.Errorf("Symbol: got %q, want ETH", rec.Symbol)
	}
	if rec.Total != "6,000.00" {
		t.Errorf("Total: got %q, want 6,000.00", rec.Total)
	}
}

func TestParseMissingRequiredFieldIsError(t *testing.T) {
	t.Parallel()

	p := NewWealthsimple()
	_, ok, err := p.Parse(
		"Your order has been filled",
		afterCutoff,
		"Nothing useful in this body",
	)
	if !ok {
		t.Fatal("a trade subject is relevant even when the body is malformed")
	}
	if err == nil {
		t.Fatal("expected an error for a body with no fields")
	}
}
