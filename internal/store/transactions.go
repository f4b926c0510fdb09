package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kevanoullio/portfolio-manager-sub000/internal/model"
)

// InsertTransaction commits one resolved transaction row. The insert
// is keyed on the row's SourceRef: a message re-delivered after a
// crash between write and watermark advance is silently ignored.
// Returns true when a new row was written.
func (s *SQLiteStore) InsertTransaction(
	ctx context.Context, tx model.Transaction,
) (bool, error) {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, user_id, asset_id, transaction_type_id,
			brokerage_id, investment_account_id,
			quantity, avg_price, total, fee,
			transaction_date, source_ref, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.AssetID, tx.TransactionTypeID,
		tx.BrokerageID, tx.InvestmentAccountID,
		tx.Quantity.String(), tx.AvgPrice.String(),
		tx.Total.String(), tx.Fee.String(),
		tx.TransactionDate.UTC(), tx.SourceRef, tx.ImportedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("inserting transaction %s: %w", tx.SourceRef, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking transaction insert %s: %w", tx.SourceRef, err)
	}

	return n > 0, nil
}

// CountTransactions returns the number of stored transactions for a user.
func (s *SQLiteStore) CountTransactions(
	ctx context.Context, userID string,
) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM transactions WHERE user_id = ?", userID,
	)
	if err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return n, nil
}
