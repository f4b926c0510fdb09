package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/kevanoullio/portfolio-manager-sub000/internal/model"
)

// Canonical field keys.
const (
	fieldAccount  = "Account"
	fieldSymbol   = "Symbol"
	fieldType     = "Type"
	fieldQuantity = "Quantity"
	fieldAvgPrice = "Average price"
	fieldTotal    = "Total"
	fieldAmount   = "Amount"
)

// wealthsimpleSynonyms maps alternate key spellings seen in
// Wealthsimple emails to canonical field keys. The table is fixed,
// never inferred.
var wealthsimpleSynonyms = map[string]string{
	"Cryptocurrency": fieldSymbol,
	"Stock":          fieldSymbol,
	"Shares":         fieldQuantity,
	"Total cost":     fieldTotal,
	"Total value":    fieldTotal,
	"Dividend":       fieldAmount,
}

var (
	tradeTemplate = template{
		kind: model.KindTrade,
		fields: []string{
			fieldAccount, fieldSymbol, fieldType,
			fieldQuantity, fieldAvgPrice, fieldTotal,
		},
	}
	dividendTemplate = template{
		kind: model.KindDividend,
		fields: []string{
			fieldAccount, fieldSymbol, fieldQuantity, fieldAmount,
		},
	}
)

// Wealthsimple parses Wealthsimple trade-execution and dividend
// notification emails.
type Wealthsimple struct{}

// NewWealthsimple returns a parser for Wealthsimple emails.
func NewWealthsimple() *Wealthsimple {
	return &Wealthsimple{}
}

// classify picks the field template for a subject line. The bool is
// false for subjects matching neither pattern.
func (p *Wealthsimple) classify(subject string) (template, bool) {
	s := strings.ToLower(subject)
	switch {
	case strings.Contains(s, "order has been filled"):
		return tradeTemplate, true
	case strings.Contains(s, "dividend"):
		return dividendTemplate, true
	default:
		return template{}, false
	}
}

// Parse extracts a normalized transaction from one email. Subjects
// matching neither the trade nor the dividend pattern return ok ==
// false with no error, so the caller can advance past the message.
func (p *Wealthsimple) Parse(
	subject string, date time.Time, body string,
) (*model.ParsedTransaction, bool, error) {
	tpl, relevant := p.classify(subject)
	if !relevant {
		return nil, false, nil
	}

	fields := scanFields(body, tpl, wealthsimpleSynonyms)

	var rec *model.ParsedTransaction
	var err error
	switch tpl.kind {
	case model.KindTrade:
		rec, err = p.buildTrade(fields, date)
	case model.KindDividend:
		rec, err = p.buildDividend(fields, date)
	}
	if err != nil {
		return nil, true, err
	}

	rec.InvestmentAccount = normalizeAccountLabel(fields[fieldAccount])
	if rec.InvestmentAccount == "" {
		return nil, true, fmt.Errorf("message %q: no account line", subject)
	}
	rec.TransactionDate = date

	return rec, true, nil
}

// buildTrade normalizes a trade-execution email's fields.
func (p *Wealthsimple) buildTrade(
	fields map[string]string, date time.Time,
) (*model.ParsedTransaction, error) {
	symbol := fields[fieldSymbol]
	if symbol == "" {
		return nil, fmt.Errorf("trade email: no symbol line")
	}

	qty, err := ParseAmount(fields[fieldQuantity])
	if err != nil {
		return nil, fmt.Errorf("trade email: %w", err)
	}

	price, err := ParseAmount(fields[fieldAvgPrice])
	if err != nil {
		return nil, fmt.Errorf("trade email: %w", err)
	}

	// The email omits the total when the brokerage considers it
	// implied; compute it from quantity and price in that case.
	total := fields[fieldTotal]
	if total == "" {
		total = FormatTotal(qty.Mul(price).Round(2))
	}

	// The currency marker rides on the price (or the explicit total);
	// split it off and interpret it under the convention in force at
	// the email's date.
	prefix, _, hasGlyph := SplitCurrency(fields[fieldAvgPrice])
	if !hasGlyph {
		prefix, _, _ = SplitCurrency(fields[fieldTotal])
	}
	_, totalAmount, _ := SplitCurrency(total)

	txType := strings.ToLower(trimMarkup(fields[fieldType]))
	if txType == "" {
		txType = "buy"
	}

	return &model.ParsedTransaction{
		Kind:            model.KindTrade,
		Symbol:          symbol,
		TransactionType: txType,
		Quantity:        qty.String(),
		AvgPrice:        price.String(),
		Total:           totalAmount,
		Currency:        glyphCurrency(prefix, date),
	}, nil
}

// buildDividend normalizes a dividend-payment email's fields.
func (p *Wealthsimple) buildDividend(
	fields map[string]string, date time.Time,
) (*model.ParsedTransaction, error) {
	symbol := fields[fieldSymbol]
	if symbol == "" {
		return nil, fmt.Errorf("dividend email: no symbol line")
	}

	amount, err := ParseAmount(fields[fieldAmount])
	if err != nil {
		return nil, fmt.Errorf("dividend email: %w", err)
	}

	// Dividends default to a quantity of one payment.
	qty := "1"
	if fields[fieldQuantity] != "" {
		q, err := ParseAmount(fields[fieldQuantity])
		if err != nil {
			return nil, fmt.Errorf("dividend email: %w", err)
		}
		qty = q.String()
	}

	prefix, _, _ := SplitCurrency(fields[fieldAmount])

	return &model.ParsedTransaction{
		Kind:            model.KindDividend,
		Symbol:          symbol,
		TransactionType: "dividend",
		Quantity:        qty,
		AvgPrice:        amount.String(),
		Total:           FormatTotal(amount),
		Currency:        glyphCurrency(prefix, date),
	}, nil
}
