package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kevanoullio/portfolio-manager-sub000/internal/mail"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/model"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/parse"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/resolve"
	"github.com/kevanoullio/portfolio-manager-sub000/internal/store"
)

// MailSession is the subset of session operations a scan uses.
// *mail.Session satisfies it; tests substitute a fake.
type MailSession interface {
	ListFolders() ([]string, error)
	SelectFolder(folder string) (uint32, error)
	SearchUIDs(after uint32) ([]uint32, error)
	FetchMessage(uid uint32) (*mail.RawMessage, error)
	Close() error
}

// Summary reports the outcome of one folder scan.
type Summary struct {
	Address    string
	Folder     string
	Processed  int // transactions written
	Skipped    int // irrelevant, unparseable, or unknown-symbol messages
	Duplicates int // messages whose transaction row already existed
}

// Importer runs the email transaction import: it scans a mailbox
// folder for messages past the stored watermark, extracts and resolves
// each transaction, persists it, and advances the watermark. Messages
// are processed strictly in ascending UID order, one at a time, and
// the watermark only ever moves to a UID whose outcome is known.
type Importer struct {
	store    store.Store
	parser   parse.Parser
	resolver *resolve.Resolver
	log      zerolog.Logger
}

// New creates an importer.
func New(
	s store.Store,
	parser parse.Parser,
	resolver *resolve.Resolver,
	log zerolog.Logger,
) *Importer {
	return &Importer{
		store:    s,
		parser:   parser,
		resolver: resolver,
		log:      log,
	}
}

// ScanFolder processes every message in folder with a UID past the
// stored watermark. It stops at the first hard failure, leaving the
// watermark at the last message whose outcome is known so the failed
// message is retried on the next run.
func (im *Importer) ScanFolder(
	ctx context.Context, sess MailSession, address, folder string,
) (*Summary, error) {
	summary := &Summary{Address: address, Folder: folder}
	log := im.log.With().Str("mailbox", address).Str("folder", folder).Logger()

	var after uint32
	wm, err := im.store.GetWatermark(ctx, address, folder)
	switch {
	case err == nil:
		after = wm.LastUID
	case errors.Is(err, store.ErrNotFound):
		// First scan of this folder: search everything, since
		// provider-assigned UIDs do not start at any fixed value.
	default:
		return summary, err
	}

	count, err := sess.SelectFolder(folder)
	if err != nil {
		return summary, fmt.Errorf("selecting folder %q: %w", folder, err)
	}
	log.Debug().Uint32("messages", count).Uint32("after_uid", after).Msg("folder selected")

	uids, err := sess.SearchUIDs(after)
	if err != nil {
		return summary, fmt.Errorf("searching folder %q: %w", folder, err)
	}

	if len(uids) == 0 {
		log.Info().Msg("no new emails")
		return summary, nil
	}

	for _, uid := range uids {
		if err := im.processMessage(ctx, sess, address, folder, uid, summary, log); err != nil {
			return summary, err
		}
	}

	log.Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("duplicates", summary.Duplicates).
		Msg("scan complete")

	return summary, nil
}

// processMessage handles one message end to end. A nil return means
// the message's outcome is known and the watermark has advanced past
// it; an error return means the outcome is unknown and the scan must
// stop before the watermark moves.
func (im *Importer) processMessage(
	ctx context.Context,
	sess MailSession,
	address, folder string,
	uid uint32,
	summary *Summary,
	log zerolog.Logger,
) error {
	raw, err := sess.FetchMessage(uid)
	if err != nil {
		return fmt.Errorf("fetching uid %d: %w", uid, err)
	}

	body := mail.ExtractBody(raw.Body)

	rec, relevant, err := im.parser.Parse(raw.Subject, raw.Date, body)
	switch {
	case err != nil:
		// A malformed body in a relevant email is a data-quality
		// problem, not a reason to halt the scan.
		log.Warn().Uint32("uid", uid).Str("subject", raw.Subject).
			Err(err).Msg("skipping unparseable message")
		summary.Skipped++
		return im.advance(ctx, address, folder, uid)
	case !relevant:
		log.Debug().Uint32("uid", uid).Str("subject", raw.Subject).
			Msg("skipping unrelated message")
		summary.Skipped++
		return im.advance(ctx, address, folder, uid)
	}

	sourceRef := fmt.Sprintf("%s/%s/%d", address, folder, uid)

	tx, err := im.resolver.Resolve(ctx, rec, sourceRef)
	if err != nil {
		if errors.Is(err, resolve.ErrAssetUnknown) {
			log.Warn().Uint32("uid", uid).Str("symbol", rec.Symbol).
				Msg("skipping message with unknown symbol")
			summary.Skipped++
			return im.advance(ctx, address, folder, uid)
		}
		// Missing reference data: leave the watermark behind this
		// message so it is retried once the data is fixed.
		return fmt.Errorf("resolving uid %d: %w", uid, err)
	}

	inserted, err := im.store.InsertTransaction(ctx, *tx)
	if err != nil {
		return fmt.Errorf("persisting uid %d: %w", uid, err)
	}

	if inserted {
		summary.Processed++
		log.Info().Uint32("uid", uid).Str("symbol", rec.Symbol).
			Str("type", rec.TransactionType).Str("total", rec.Total).
			Str("currency", rec.Currency).Msg("transaction imported")
	} else {
		summary.Duplicates++
		log.Info().Uint32("uid", uid).Str("ref", sourceRef).
			Msg("transaction already imported")
	}

	return im.advance(ctx, address, folder, uid)
}

// advance moves the watermark past a message whose outcome is known.
func (im *Importer) advance(ctx context.Context, address, folder string, uid uint32) error {
	if err := im.store.AdvanceWatermark(ctx, address, folder, uid); err != nil {
		return fmt.Errorf("advancing watermark to %d: %w", uid, err)
	}
	return nil
}

// ScanAccount scans the given folders of one mailbox. With no folders
// specified, only INBOX is scanned.
func (im *Importer) ScanAccount(
	ctx context.Context,
	sess MailSession,
	account model.EmailAccount,
	folders []string,
) ([]*Summary, error) {
	if len(folders) == 0 {
		folders = []string{"INBOX"}
	}

	var summaries []*Summary
	for _, folder := range folders {
		summary, err := im.ScanFolder(ctx, sess, account.Address, folder)
		summaries = append(summaries, summary)
		if err != nil {
			return summaries, fmt.Errorf("scanning %s/%s: %w", account.Address, folder, err)
		}
	}

	return summaries, nil
}
