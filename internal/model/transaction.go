package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a brokerage email by the kind of event it
// reports. The kind decides which fields the parser expects to find.
type TransactionKind string

const (
	KindTrade    TransactionKind = "trade"
	KindDividend TransactionKind = "dividend"
)

// ParsedTransaction is the normalized record extracted from a single
// brokerage email body. All values are strings at this stage; numeric
// and date conversion happens during identity resolution.
type ParsedTransaction struct {
	Kind TransactionKind

	// Symbol is the traded asset's ticker (e.g., "BTC", "AAPL").
	Symbol string

	// InvestmentAccount is the normalized account label
	// (lower-cased, spaces replaced with underscores).
	InvestmentAccount string

	// TransactionType is the reference type name ("buy", "sell",
	// "dividend").
	TransactionType string

	// Quantity and AvgPrice are decimal strings without currency
	// markers. Total may contain thousands separators.
	Quantity string
	AvgPrice string
	Total    string

	// Currency is the ISO code resolved from the email's currency
	// glyphs ("CAD", "USD").
	Currency string

	// TransactionDate is the email's Date header.
	TransactionDate time.Time
}

// Transaction is a fully resolved transaction row ready for storage.
// Every foreign key references an existing reference row.
type Transaction struct {
	ID                  string
	UserID              string
	AssetID             string
	TransactionTypeID   string
	BrokerageID         string
	InvestmentAccountID string

	Quantity decimal.Decimal
	AvgPrice decimal.Decimal
	Total    decimal.Decimal
	Fee      decimal.Decimal

	TransactionDate time.Time

	// SourceRef identifies the imported message
	// ("address/folder/uid") and deduplicates re-deliveries.
	SourceRef  string
	ImportedAt time.Time
}
