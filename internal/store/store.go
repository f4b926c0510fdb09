package store

import (
	"context"
	"errors"

	"github.com/kevanoullio/portfolio-manager-sub000/internal/model"
)

// ErrNotFound is returned by lookup operations when no row matches.
// A miss on reference data is a normal outcome, not a failure.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for reference data, imported
// transactions, registered email accounts, and import watermarks.
type Store interface {
	// === Reference data ===

	// GetOrCreateBrokerage looks a brokerage up by name, inserting a
	// new row on first encounter.
	GetOrCreateBrokerage(ctx context.Context, name string) (*model.Brokerage, error)

	// GetOrCreateInvestmentAccount looks an account up by its
	// normalized label within a brokerage, inserting a new row on
	// first encounter.
	GetOrCreateInvestmentAccount(
		ctx context.Context, brokerageID, label string,
	) (*model.InvestmentAccount, error)

	// GetCurrencyByCode looks a currency up by ISO code.
	GetCurrencyByCode(ctx context.Context, code string) (*model.Currency, error)

	// GetAssetsBySymbol returns every asset row for a symbol.
	// Cross-listed assets yield multiple rows; zero rows is a normal
	// outcome reported as an empty slice, not an error.
	GetAssetsBySymbol(ctx context.Context, symbol string) ([]model.Asset, error)

	// CreateAsset inserts a new reference asset row.
	CreateAsset(ctx context.Context, asset model.Asset) error

	// GetTransactionTypeByName looks a transaction type up by name.
	GetTransactionTypeByName(ctx context.Context, name string) (*model.TransactionType, error)

	// === Transactions ===

	// InsertTransaction commits one resolved transaction row. The
	// insert is idempotent on the row's SourceRef: re-delivering an
	// already stored message is a no-op, reported by the returned
	// bool (true when a new row was written).
	InsertTransaction(ctx context.Context, tx model.Transaction) (bool, error)

	// === Email accounts ===

	UpsertEmailAccount(ctx context.Context, acct model.EmailAccount) error
	ListEmailAccounts(ctx context.Context, userID string) ([]model.EmailAccount, error)

	// === Import watermarks ===

	// GetWatermark returns the watermark for a (mailbox, folder)
	// pair, or ErrNotFound before the first successful message.
	GetWatermark(ctx context.Context, address, folder string) (*model.Watermark, error)

	// AdvanceWatermark moves the watermark forward to uid. A uid at
	// or below the stored value leaves the row unchanged, so a stale
	// writer can never move the watermark backwards.
	AdvanceWatermark(ctx context.Context, address, folder string, uid uint32) error
}
