package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kevanoullio/portfolio-manager-sub000/internal/model"
)

// GetWatermark returns the last processed UID for a (mailbox, folder)
// pair, or ErrNotFound before the first successful message of that
// folder.
func (s *SQLiteStore) GetWatermark(
	ctx context.Context, address, folder string,
) (*model.Watermark, error) {
	var w model.Watermark
	err := s.db.QueryRowxContext(ctx,
		"SELECT address, folder, last_uid FROM import_watermarks WHERE address = ? AND folder = ?",
		address, folder,
	).Scan(&w.Address, &w.Folder, &w.LastUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("watermark %s/%s: %w", address, folder, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying watermark %s/%s: %w", address, folder, err)
	}
	return &w, nil
}

// AdvanceWatermark moves the watermark for (address, folder) forward
// to uid. The update is guarded so the stored value only ever grows:
// a uid at or below the stored one leaves the row unchanged, which
// protects against a stale concurrent writer moving it backwards.
func (s *SQLiteStore) AdvanceWatermark(
	ctx context.Context, address, folder string, uid uint32,
) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO import_watermarks (address, folder, last_uid)
		VALUES (?, ?, ?)
		ON CONFLICT(address, folder) DO UPDATE
		SET last_uid = excluded.last_uid
		WHERE excluded.last_uid > import_watermarks.last_uid`,
		address, folder, uid,
	)
	if err != nil {
		return fmt.Errorf("advancing watermark %s/%s to %d: %w", address, folder, uid, err)
	}
	return nil
}
