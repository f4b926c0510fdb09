package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevanoullio/portfolio-manager-sub000/internal/model"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/parse"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/store"
)

// ErrAssetUnknown indicates that no reference asset row matched the
// record's symbol. The message is skippable: unmatched historical
// symbols (de-listed or not yet catalogued) are expected and must not
// halt a scan.
var ErrAssetUnknown = errors.New("no matching asset")

// AssetSelector chooses among candidate asset rows when the currency
// rule cannot disambiguate them. Implementations may block on
// operator input.
type AssetSelector interface {
	SelectAsset(symbol string, candidates []model.Asset) (model.Asset, error)
}

// Resolver turns a normalized record into a fully resolved transaction
// row: every foreign key maps to an existing or newly inserted
// reference row before anything is written.
type Resolver struct {
	store     store.Store
	selector  AssetSelector
	brokerage string
	userID    string
}

// New creates a resolver writing rows for the given user, attributing
// them to the named brokerage.
func New(s store.Store, selector AssetSelector, brokerage, userID string) *Resolver {
	return &Resolver{
		store:     s,
		selector:  selector,
		brokerage: brokerage,
		userID:    userID,
	}
}

// Resolve maps a parsed record's identities to database ids and builds
// the storage row. Reference rows for the brokerage and investment
// account are inserted on first encounter. A missing transaction type
// or currency is a hard failure carrying store.ErrNotFound; a symbol
// with zero asset rows fails with ErrAssetUnknown.
func (r *Resolver) Resolve(
	ctx context.Context, rec *model.ParsedTransaction, sourceRef string,
) (*model.Transaction, error) {
	brokerage, err := r.store.GetOrCreateBrokerage(ctx, r.brokerage)
	if err != nil {
		return nil, fmt.Errorf("resolving brokerage: %w", err)
	}

	account, err := r.store.GetOrCreateInvestmentAccount(
		ctx, brokerage.ID, rec.InvestmentAccount,
	)
	if err != nil {
		return nil, fmt.Errorf("resolving investment account: %w", err)
	}

	txType, err := r.store.GetTransactionTypeByName(ctx, rec.TransactionType)
	if err != nil {
		return nil, fmt.Errorf("resolving transaction type: %w", err)
	}

	if _, err := r.store.GetCurrencyByCode(ctx, rec.Currency); err != nil {
		return nil, fmt.Errorf("resolving currency: %w", err)
	}

	asset, err := r.resolveAsset(ctx, rec)
	if err != nil {
		return nil, err
	}

	qty, err := parse.ParseAmount(rec.Quantity)
	if err != nil {
		return nil, fmt.Errorf("resolving quantity: %w", err)
	}
	price, err := parse.ParseAmount(rec.AvgPrice)
	if err != nil {
		return nil, fmt.Errorf("resolving price: %w", err)
	}
	total, err := parse.ParseAmount(rec.Total)
	if err != nil {
		return nil, fmt.Errorf("resolving total: %w", err)
	}

	return &model.Transaction{
		UserID:              r.userID,
		AssetID:             asset.ID,
		TransactionTypeID:   txType.ID,
		BrokerageID:         brokerage.ID,
		InvestmentAccountID: account.ID,
		Quantity:            qty,
		AvgPrice:            price,
		Total:               total,
		Fee:                 decimal.Zero,
		TransactionDate:     rec.TransactionDate,
		SourceRef:           sourceRef,
		ImportedAt:          time.Now().UTC(),
	}, nil
}

// resolveAsset finds the reference asset for a record's symbol. With
// several cross-listed rows, a single row matching the record's
// currency is selected automatically; otherwise the selector decides.
func (r *Resolver) resolveAsset(
	ctx context.Context, rec *model.ParsedTransaction,
) (*model.Asset, error) {
	candidates, err := r.store.GetAssetsBySymbol(ctx, rec.Symbol)
	if err != nil {
		return nil, fmt.Errorf("looking up asset %q: %w", rec.Symbol, err)
	}

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("symbol %q: %w", rec.Symbol, ErrAssetUnknown)
	case 1:
		return &candidates[0], nil
	}

	var matched []model.Asset
	for _, a := range candidates {
		if a.CurrencyCode == rec.Currency {
			matched = append(matched, a)
		}
	}
	if len(matched) == 1 {
		return &matched[0], nil
	}

	// Currency alone cannot pick a listing; hand the candidates to
	// the operator.
	chosen, err := r.selector.SelectAsset(rec.Symbol, candidates)
	if err != nil {
		return nil, fmt.Errorf("selecting asset %q: %w", rec.Symbol, err)
	}
	return &chosen, nil
}
