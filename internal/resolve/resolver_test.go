package resolve_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kevanoullio/portfolio-manager-sub000/internal/model"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/resolve"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/store"
	"github.com/kevanoullio/portfolio-manager-sub000/tests/testutil"
)

// fakeSelector records whether the operator was consulted and returns
// a scripted choice.
type fakeSelector struct {
	called bool
	pick   int
}

func (f *fakeSelector) SelectAsset(
	symbol string, candidates []model.Asset,
) (model.Asset, error) {
	f.called = true
	return candidates[f.pick], nil
}

func tradeRecord(symbol, currency string) *model.ParsedTransaction {
	return &model.ParsedTransaction{
		Kind:              model.KindTrade,
		Symbol:            symbol,
		InvestmentAccount: "rrsp",
		TransactionType:   "buy",
		Quantity:          "0.5",
		AvgPrice:          "50,000.00",
		Total:             "25,000.00",
		Currency:          currency,
		TransactionDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestResolveInsertsReferenceRows(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.CreateAsset(ctx, model.Asset{Symbol: "BTC", CurrencyCode: "CAD"}); err != nil {
		t.Fatal(err)
	}

	sel := &fakeSelector{}
	r := resolve.New(s, sel, "Wealthsimple", "default")

	tx, err := r.Resolve(ctx, tradeRecord("BTC", "CAD"), "a@gmail.com/INBOX/1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if tx.BrokerageID == "" || tx.InvestmentAccountID == "" || tx.AssetID == "" {
		t.Errorf("unresolved foreign keys: %+v", tx)
	}
	if tx.Total.String() != "25000" {
		t.Errorf("Total: got %s, want 25000", tx.Total)
	}
	if !tx.Fee.IsZero() {
		t.Errorf("Fee should default to zero, got %s", tx.Fee)
	}
	if sel.called {
		t.Error("single-listing symbol must not prompt")
	}

	// A second resolve reuses the same reference rows.
	tx2, err := r.Resolve(ctx, tradeRecord("BTC", "CAD"), "a@gmail.com/INBOX/2")
	if err != nil {
		t.Fatal(err)
	}
	if tx2.BrokerageID != tx.BrokerageID || tx2.InvestmentAccountID != tx.InvestmentAccountID {
		t.Error("re-import created duplicate reference rows")
	}
}

func TestResolveDisambiguatesByCurrency(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.CreateAsset(ctx, model.Asset{
		ID: "aaa-cad", Symbol: "AAA", Exchange: "TSX", CurrencyCode: "CAD",
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateAsset(ctx, model.Asset{
		ID: "aaa-usd", Symbol: "AAA", Exchange: "NYSE", CurrencyCode: "USD",
	}); err != nil {
		t.Fatal(err)
	}

	sel := &fakeSelector{}
	r := resolve.New(s, sel, "Wealthsimple", "default")

	tx, err := r.Resolve(ctx, tradeRecord("AAA", "USD"), "a@gmail.com/INBOX/1")
	if err != nil {
		t.Fatal(err)
	}

	if tx.AssetID != "aaa-usd" {
		t.Errorf("got asset %s, want aaa-usd", tx.AssetID)
	}
	if sel.called {
		t.Error("a unique currency match must not prompt the operator")
	}
}

func TestResolvePromptsWhenCurrencyAmbiguous(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	// Two listings in the same currency: the currency rule cannot
	// decide, so the operator picks.
	if err := s.CreateAsset(ctx, model.Asset{
		ID: "bbb-tsx", Symbol: "BBB", Exchange: "TSX", CurrencyCode: "CAD",
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateAsset(ctx, model.Asset{
		ID: "bbb-cse", Symbol: "BBB", Exchange: "CSE", CurrencyCode: "CAD",
	}); err != nil {
		t.Fatal(err)
	}

	sel := &fakeSelector{pick: 1}
	r := resolve.New(s, sel, "Wealthsimple", "default")

	tx, err := r.Resolve(ctx, tradeRecord("BBB", "CAD"), "a@gmail.com/INBOX/1")
	if err != nil {
		t.Fatal(err)
	}

	if !sel.called {
		t.Fatal("expected the operator to be consulted")
	}
	if tx.AssetID == "" {
		t.Error("selected asset not used")
	}
}

func TestResolveUnknownSymbol(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	r := resolve.New(s, &fakeSelector{}, "Wealthsimple", "default")

	_, err := r.Resolve(ctx, tradeRecord("GONE", "CAD"), "a@gmail.com/INBOX/1")
	if !errors.Is(err, resolve.ErrAssetUnknown) {
		t.Fatalf("got %v, want ErrAssetUnknown", err)
	}
}

func TestResolveMissingTransactionType(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.CreateAsset(ctx, model.Asset{Symbol: "BTC", CurrencyCode: "CAD"}); err != nil {
		t.Fatal(err)
	}

	r := resolve.New(s, &fakeSelector{}, "Wealthsimple", "default")

	rec := tradeRecord("BTC", "CAD")
	rec.TransactionType = "short-sale"

	_, err := r.Resolve(ctx, rec, "a@gmail.com/INBOX/1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound for the missing reference", err)
	}
	if errors.Is(err, resolve.ErrAssetUnknown) {
		t.Fatal("a missing reference must not look like a skippable symbol miss")
	}
}
