package model

// Brokerage is a reference row for a brokerage firm, looked up by name.
type Brokerage struct {
	ID   string
	Name string
}

// InvestmentAccount is a reference row for an account held at a
// brokerage (e.g., "rrsp", "tfsa"). Labels are unique per brokerage.
type InvestmentAccount struct {
	ID          string
	BrokerageID string
	Label       string
}

// Currency is a reference row for a currency, looked up by ISO code.
type Currency struct {
	ID   string
	Code string
}

// Asset is a reference row for a tradable asset. The same symbol may
// appear on several rows when the asset is cross-listed on different
// exchanges or in different currencies.
type Asset struct {
	ID       string
	Symbol   string
	Name     string
	Exchange string

	// CurrencyCode is the listing currency's ISO code, denormalized
	// onto the asset row for disambiguation.
	CurrencyCode string
}

// TransactionType is a reference row for a transaction type name
// ("buy", "sell", "dividend").
type TransactionType struct {
	ID   string
	Name string
}
