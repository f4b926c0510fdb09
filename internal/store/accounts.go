package store

import (
	"context"
	"fmt"

	"github.com/kevanoullio/portfolio-manager-sub000/internal/model"
)

// UpsertEmailAccount inserts or replaces a registered import mailbox.
func (s *SQLiteStore) UpsertEmailAccount(
	ctx context.Context, acct model.EmailAccount,
) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO email_accounts (address, user_id, provider) VALUES (?, ?, ?)",
		acct.Address, acct.UserID, acct.Provider,
	)
	if err != nil {
		return fmt.Errorf("upserting email account %s: %w", acct.Address, err)
	}
	return nil
}

// ListEmailAccounts returns the mailboxes registered for a user,
// ordered by address.
func (s *SQLiteStore) ListEmailAccounts(
	ctx context.Context, userID string,
) ([]model.EmailAccount, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT address, user_id, provider FROM email_accounts WHERE user_id = ? ORDER BY address",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying email accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.EmailAccount
	for rows.Next() {
		var a model.EmailAccount
		if err := rows.Scan(&a.Address, &a.UserID, &a.Provider); err != nil {
			return nil, fmt.Errorf("scanning email account row: %w", err)
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}
