package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kevanoullio/portfolio-manager-sub000/internal/model"
)

// GetOrCreateBrokerage looks a brokerage up by name, inserting a new
// row on the first miss and re-reading it.
func (s *SQLiteStore) GetOrCreateBrokerage(
	ctx context.Context, name string,
) (*model.Brokerage, error) {
	b, err := s.getBrokerageByName(ctx, name)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO brokerages (id, name) VALUES (?, ?)",
		uuid.New().String(), name,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting brokerage %q: %w", name, err)
	}

	return s.getBrokerageByName(ctx, name)
}

func (s *SQLiteStore) getBrokerageByName(
	ctx context.Context, name string,
) (*model.Brokerage, error) {
	var b model.Brokerage
	err := s.db.QueryRowxContext(ctx,
		"SELECT id, name FROM brokerages WHERE name = ?", name,
	).Scan(&b.ID, &b.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("brokerage %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying brokerage %q: %w", name, err)
	}
	return &b, nil
}

// GetOrCreateInvestmentAccount looks an account up by its normalized
// label within a brokerage, inserting a new row on the first miss.
func (s *SQLiteStore) GetOrCreateInvestmentAccount(
	ctx context.Context, brokerageID, label string,
) (*model.InvestmentAccount, error) {
	a, err := s.getInvestmentAccount(ctx, brokerageID, label)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO investment_accounts (id, brokerage_id, label) VALUES (?, ?, ?)",
		uuid.New().String(), brokerageID, label,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting investment account %q: %w", label, err)
	}

	return s.getInvestmentAccount(ctx, brokerageID, label)
}

func (s *SQLiteStore) getInvestmentAccount(
	ctx context.Context, brokerageID, label string,
) (*model.InvestmentAccount, error) {
	var a model.InvestmentAccount
	err := s.db.QueryRowxContext(ctx,
		"SELECT id, brokerage_id, label FROM investment_accounts WHERE brokerage_id = ? AND label = ?",
		brokerageID, label,
	).Scan(&a.ID, &a.BrokerageID, &a.Label)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("investment account %q: %w", label, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying investment account %q: %w", label, err)
	}
	return &a, nil
}

// GetCurrencyByCode looks a currency up by its ISO code.
func (s *SQLiteStore) GetCurrencyByCode(
	ctx context.Context, code string,
) (*model.Currency, error) {
	var c model.Currency
	err := s.db.QueryRowxContext(ctx,
		"SELECT id, code FROM currencies WHERE code = ?", code,
	).Scan(&c.ID, &c.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("currency %q: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying currency %q: %w", code, err)
	}
	return &c, nil
}

// GetAssetsBySymbol returns every asset row for the given symbol,
// joined with its listing currency code. Zero rows is a normal outcome.
func (s *SQLiteStore) GetAssetsBySymbol(
	ctx context.Context, symbol string,
) ([]model.Asset, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT a.id, a.symbol, a.name, a.exchange, c.code
		FROM assets a
		JOIN currencies c ON c.id = a.currency_id
		WHERE a.symbol = ?
		ORDER BY a.exchange, c.code`,
		symbol,
	)
	if err != nil {
		return nil, fmt.Errorf("querying assets for %q: %w", symbol, err)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		var a model.Asset
		if err := rows.Scan(&a.ID, &a.Symbol, &a.Name, &a.Exchange, &a.CurrencyCode); err != nil {
			return nil, fmt.Errorf("scanning asset row: %w", err)
		}
		assets = append(assets, a)
	}

	return assets, rows.Err()
}

// CreateAsset inserts a new reference asset row. The listing currency
// must already exist.
func (s *SQLiteStore) CreateAsset(ctx context.Context, asset model.Asset) error {
	cur, err := s.GetCurrencyByCode(ctx, asset.CurrencyCode)
	if err != nil {
		return err
	}

	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO assets (id, symbol, name, exchange, currency_id) VALUES (?, ?, ?, ?, ?)",
		asset.ID, asset.Symbol, asset.Name, asset.Exchange, cur.ID,
	)
	if err != nil {
		return fmt.Errorf("inserting asset %q: %w", asset.Symbol, err)
	}

	return nil
}

// GetTransactionTypeByName looks a transaction type up by name.
func (s *SQLiteStore) GetTransactionTypeByName(
	ctx context.Context, name string,
) (*model.TransactionType, error) {
	var t model.TransactionType
	err := s.db.QueryRowxContext(ctx,
		"SELECT id, name FROM transaction_types WHERE name = ?", name,
	).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction type %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying transaction type %q: %w", name, err)
	}
	return &t, nil
}
